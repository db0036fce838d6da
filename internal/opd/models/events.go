package models

import "time"

// EventType discriminates inbound OPD events.
type EventType string

const (
	EventNewPatient          EventType = "new_patient"
	EventAvailabilityChanged EventType = "availability_changed"
)

// Event is an inbound state change accepted from the boundary. Events are
// acknowledged immediately and processed asynchronously by the ingest pool.
type Event struct {
	ID               string    `json:"id"`
	Type             EventType `json:"type"`
	PatientID        string    `json:"patient_id,omitempty"`
	DepartmentID     int64     `json:"department_id"`
	AvailableDoctors int       `json:"available_doctors,omitempty"`
	ReceivedAt       time.Time `json:"received_at"`
}

// Outbound publication kinds, used as the "type" field of every websocket
// message so clients can demultiplex.
const (
	PubQueueMetrics  = "queue_metrics"
	PubQueuePosition = "queue_position"
	PubDispatch      = "dispatch"
	PubDispatchError = "dispatch_error"
)

// QueueMetricsUpdated carries a fresh metric snapshot for one department.
type QueueMetricsUpdated struct {
	Type         string         `json:"type"`
	DepartmentID int64          `json:"department_id"`
	Snapshot     MetricSnapshot `json:"snapshot"`
}

// QueuePositionAssigned tells subscribers a patient joined the queue.
type QueuePositionAssigned struct {
	Type           string    `json:"type"`
	EntryID        int64     `json:"entry_id"`
	DepartmentID   int64     `json:"department_id"`
	PatientID      string    `json:"patient_id"`
	SequenceNumber int       `json:"sequence_number"`
	EstimatedTime  time.Time `json:"estimated_time"`
}

// DispatchEvent announces a manual priority dispatch to subscribers.
type DispatchEvent struct {
	Type         string `json:"type"`
	TicketID     string `json:"ticket_id"`
	PatientID    string `json:"patient_id"`
	DepartmentID int64  `json:"department_id"`
	Priority     int    `json:"priority"`
}

// DispatchError reports an asynchronous processing failure to subscribers.
type DispatchError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

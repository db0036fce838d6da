package models

import "time"

// QueueStatus is the lifecycle state of an OPD queue entry.
type QueueStatus string

const (
	StatusWaiting   QueueStatus = "Waiting"
	StatusInService QueueStatus = "InService"
	StatusDone      QueueStatus = "Done"
)

// QueueEntry is one patient's position in a department's OPD queue.
// Sequence numbers are assigned per department, start at 1 and strictly
// increase with arrival order; they are never reused.
type QueueEntry struct {
	ID             int64       `json:"id"`
	PatientID      string      `json:"patient_id"`
	DepartmentID   int64       `json:"department_id"`
	SequenceNumber int         `json:"sequence_number"`
	ArrivalTime    time.Time   `json:"arrival_time"`
	EstimatedTime  time.Time   `json:"estimated_time"`
	Status         QueueStatus `json:"status"`
}

// Department mirrors the department row the queueing engine groups by.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// QueueHistoryBucket is one hour of queue-length history.
type QueueHistoryBucket struct {
	Hour   time.Time `json:"timestamp"`
	Length int       `json:"length"`
}

// MetricSnapshot is the immutable result of one estimator pass for a
// department. Rates are per minute, wait time in minutes. A new snapshot
// supersedes the previous one; snapshots are never mutated.
//
// EstimatedWaitTime and Utilization are nil when the system is unstable
// (arrival rate at or above total service capacity). Consumers must render
// that as "wait time unavailable", not as zero.
type MetricSnapshot struct {
	DepartmentID         int64     `json:"department_id"`
	DepartmentName       string    `json:"department,omitempty"`
	WaitingPatients      int       `json:"waiting_patients"`
	AvailableDoctors     int       `json:"available_doctors"`
	ArrivalRate          float64   `json:"arrival_rate"`
	ServiceRate          float64   `json:"service_rate"`
	Utilization          *float64  `json:"utilization"`
	EstimatedWaitTime    *float64  `json:"estimated_wait_time"`
	ProbabilityOfWaiting float64   `json:"probability_of_waiting"`
	Unstable             bool      `json:"unstable"`
	ComputedAt           time.Time `json:"computed_at"`
}

// PriorityTicket is one entry in the priority dispatch queue. Lower
// priority values dequeue first; insertion order breaks ties FIFO.
type PriorityTicket struct {
	TicketID     string `json:"ticket_id"`
	PatientID    string `json:"patient_id"`
	DepartmentID int64  `json:"department_id"`
	Priority     int    `json:"priority"`
	Order        uint64 `json:"-"`
}

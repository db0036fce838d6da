package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/swasthyaflow/backend/internal/opd/models"
)

// DispatchService wraps the priority queue for manual triage overrides.
//
// Dispatching does not touch ledger sequence numbers. It does mark a
// matching Waiting ledger entry InService: leaving a dispatched patient in
// the waiting view would double-count them in the arrival-rate estimate.
type DispatchService struct {
	queue  *PriorityDispatchQueue
	ledger *LedgerService
	pub    Publisher
	log    zerolog.Logger
}

func NewDispatchService(queue *PriorityDispatchQueue, ledger *LedgerService, pub Publisher, log zerolog.Logger) *DispatchService {
	return &DispatchService{queue: queue, ledger: ledger, pub: pub, log: log}
}

// AddPatient queues a patient for priority dispatch.
func (s *DispatchService) AddPatient(patientID string, departmentID int64, priority int) (models.PriorityTicket, error) {
	if patientID == "" || departmentID <= 0 {
		return models.PriorityTicket{}, fmt.Errorf("%w: patient id and department id are required", ErrValidation)
	}
	return s.queue.AddPatient(patientID, departmentID, priority), nil
}

// NextPatient pops the most urgent ticket, reconciles the ledger and
// announces the dispatch to the department's subscribers. Returns
// ErrQueueEmpty when nothing is queued.
func (s *DispatchService) NextPatient(ctx context.Context) (models.PriorityTicket, error) {
	ticket, ok := s.queue.GetNextPatient()
	if !ok {
		return models.PriorityTicket{}, ErrQueueEmpty
	}
	if _, taken := s.ledger.TakeWaitingPatient(ctx, ticket.PatientID, ticket.DepartmentID); !taken {
		s.log.Debug().Str("patient_id", ticket.PatientID).Int64("department_id", ticket.DepartmentID).
			Msg("dispatched patient had no waiting ledger entry")
	}
	msg := models.DispatchEvent{
		Type:         models.PubDispatch,
		TicketID:     ticket.TicketID,
		PatientID:    ticket.PatientID,
		DepartmentID: ticket.DepartmentID,
		Priority:     ticket.Priority,
	}
	if payload, err := json.Marshal(msg); err == nil {
		s.pub.PublishTopic(DepartmentTopic(ticket.DepartmentID), payload)
	}
	return ticket, nil
}

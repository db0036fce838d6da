package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swasthyaflow/backend/internal/opd/models"
)

// IngestService accepts queue events from the boundary without blocking
// the caller. A fixed pool of workers drains a bounded buffer; order
// across workers is not guaranteed, but every accepted event is processed
// at most once. Failures are logged and the event is dropped; the
// submitter only learns of them through a DispatchError broadcast.
// Each successfully processed event triggers exactly one estimator pass
// for the affected department.
type IngestService struct {
	jobs      chan models.Event
	workers   int
	ledger    *LedgerService
	store     Store
	estimator *EstimatorService
	pub       Publisher
	log       zerolog.Logger
	wg        sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewIngestService(workers, buffer int, ledger *LedgerService, store Store, estimator *EstimatorService, pub Publisher, log zerolog.Logger) *IngestService {
	if workers <= 0 {
		workers = 4
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &IngestService{
		jobs:      make(chan models.Event, buffer),
		workers:   workers,
		ledger:    ledger,
		store:     store,
		estimator: estimator,
		pub:       pub,
		log:       log,
	}
}

// Start launches the worker pool. Workers run until Stop is called.
func (s *IngestService) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for ev := range s.jobs {
				s.process(ctx, ev)
			}
		}()
	}
}

// Stop closes the intake and waits for in-flight events to finish.
// Subsequent Submit calls are rejected; Stop itself is idempotent.
func (s *IngestService) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()
	s.wg.Wait()
}

// Submit queues an event for asynchronous processing. It never blocks:
// when the buffer is full, or the intake is already stopped, the event is
// dropped with a log entry and false is returned.
func (s *IngestService) Submit(ev models.Event) bool {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Warn().Str("event_id", ev.ID).Str("type", string(ev.Type)).Msg("intake stopped, dropping event")
		return false
	}
	select {
	case s.jobs <- ev:
		return true
	default:
		s.log.Warn().Str("event_id", ev.ID).Str("type", string(ev.Type)).Msg("event buffer full, dropping event")
		return false
	}
}

func (s *IngestService) process(ctx context.Context, ev models.Event) {
	var err error
	switch ev.Type {
	case models.EventNewPatient:
		err = s.processNewPatient(ctx, ev)
	case models.EventAvailabilityChanged:
		err = s.processAvailabilityChanged(ctx, ev)
	default:
		err = fmt.Errorf("%w: unknown event type %q", ErrValidation, ev.Type)
	}
	if err != nil {
		s.log.Error().Err(err).Str("event_id", ev.ID).Str("type", string(ev.Type)).Msg("event processing failed, event dropped")
		s.broadcastError(ev, err)
		return
	}
	s.estimator.RecomputeDepartment(ctx, ev.DepartmentID)
}

func (s *IngestService) processNewPatient(ctx context.Context, ev models.Event) error {
	entry, err := s.ledger.Enqueue(ctx, ev.PatientID, ev.DepartmentID)
	if err != nil {
		return err
	}
	msg := models.QueuePositionAssigned{
		Type:           models.PubQueuePosition,
		EntryID:        entry.ID,
		DepartmentID:   entry.DepartmentID,
		PatientID:      entry.PatientID,
		SequenceNumber: entry.SequenceNumber,
		EstimatedTime:  entry.EstimatedTime,
	}
	if payload, err := json.Marshal(msg); err == nil {
		s.pub.PublishTopic(DepartmentTopic(entry.DepartmentID), payload)
	}
	return nil
}

func (s *IngestService) processAvailabilityChanged(ctx context.Context, ev models.Event) error {
	if ev.DepartmentID <= 0 || ev.AvailableDoctors < 0 {
		return fmt.Errorf("%w: department id and a non-negative doctor count are required", ErrValidation)
	}
	var err error
	for attempt := 1; attempt <= persistAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, persistTimeout)
		err = s.store.SetAvailableDoctors(attemptCtx, ev.DepartmentID, ev.AvailableDoctors)
		cancel()
		if err == nil {
			return nil
		}
		if attempt < persistAttempts {
			time.Sleep(persistBackoff)
		}
	}
	return fmt.Errorf("failed to apply availability change: %w", err)
}

func (s *IngestService) broadcastError(ev models.Event, cause error) {
	msg := models.DispatchError{Type: models.PubDispatchError, Reason: cause.Error()}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.pub.PublishTopic(DepartmentTopic(ev.DepartmentID), payload)
}

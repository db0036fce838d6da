package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/swasthyaflow/backend/internal/opd/models"
)

const (
	persistAttempts = 3
	persistBackoff  = 200 * time.Millisecond
	persistTimeout  = 2 * time.Second
)

// LedgerService owns the lifecycle of OPD queue entries. The in-memory
// state is authoritative for ordering: sequence numbers are assigned under
// a per-department lock so concurrent enqueues can never duplicate or
// reorder them. Writes are mirrored to the Store with a bounded retry;
// persistent storage failure is logged, never propagated.
type LedgerService struct {
	store Store
	log   zerolog.Logger
	slot  time.Duration
	now   func() time.Time

	mu          sync.Mutex
	departments map[int64]*departmentQueue
	entries     map[int64]*models.QueueEntry
	lastEntryID int64
}

type departmentQueue struct {
	mu      sync.Mutex
	lastSeq int
	waiting []*models.QueueEntry // Waiting entries, ascending by sequence number
}

// NewLedgerService builds a ledger backed by the given store. etaSlot is
// the per-position increment used for estimated service times.
func NewLedgerService(store Store, etaSlot time.Duration, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:       store,
		log:         log,
		slot:        etaSlot,
		now:         time.Now,
		departments: make(map[int64]*departmentQueue),
		entries:     make(map[int64]*models.QueueEntry),
	}
}

func (s *LedgerService) department(id int64) *departmentQueue {
	s.mu.Lock()
	defer s.mu.Unlock()
	dq, ok := s.departments[id]
	if !ok {
		dq = &departmentQueue{}
		s.departments[id] = dq
	}
	return dq
}

func (s *LedgerService) nextEntryID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEntryID++
	return s.lastEntryID
}

// Enqueue appends a patient to a department's queue. The sequence number
// is last assigned + 1 (starting at 1) and the estimated service time is
// now + slot * position, position 1-indexed within the waiting line.
func (s *LedgerService) Enqueue(ctx context.Context, patientID string, departmentID int64) (models.QueueEntry, error) {
	if patientID == "" || departmentID <= 0 {
		return models.QueueEntry{}, fmt.Errorf("%w: patient id and department id are required", ErrValidation)
	}

	dq := s.department(departmentID)
	dq.mu.Lock()
	for _, e := range dq.waiting {
		if e.PatientID == patientID {
			dq.mu.Unlock()
			return models.QueueEntry{}, fmt.Errorf("%w: patient %s is already waiting in department %d", ErrValidation, patientID, departmentID)
		}
	}
	dq.lastSeq++
	entry := &models.QueueEntry{
		ID:             s.nextEntryID(),
		PatientID:      patientID,
		DepartmentID:   departmentID,
		SequenceNumber: dq.lastSeq,
		ArrivalTime:    s.now(),
		Status:         models.StatusWaiting,
	}
	position := len(dq.waiting) + 1
	entry.EstimatedTime = entry.ArrivalTime.Add(time.Duration(position) * s.slot)
	dq.waiting = append(dq.waiting, entry)
	out := *entry
	dq.mu.Unlock()

	s.mu.Lock()
	s.entries[entry.ID] = entry
	s.mu.Unlock()

	s.persist(ctx, "append entry", func(ctx context.Context) error {
		return s.store.AppendEntry(ctx, &out)
	})
	return out, nil
}

// DequeueForService transitions a Waiting entry to InService and removes
// it from the waiting view. Other entries keep their estimates until the
// next estimator pass recomputes them.
func (s *LedgerService) DequeueForService(ctx context.Context, entryID int64) (models.QueueEntry, error) {
	s.mu.Lock()
	entry, ok := s.entries[entryID]
	s.mu.Unlock()
	if !ok {
		return models.QueueEntry{}, fmt.Errorf("%w: queue entry %d", ErrNotFound, entryID)
	}

	dq := s.department(entry.DepartmentID)
	dq.mu.Lock()
	if entry.Status != models.StatusWaiting {
		dq.mu.Unlock()
		return models.QueueEntry{}, fmt.Errorf("%w: queue entry %d is not waiting", ErrNotFound, entryID)
	}
	entry.Status = models.StatusInService
	dq.removeWaiting(entry.ID)
	out := *entry
	dq.mu.Unlock()

	s.persist(ctx, "update entry status", func(ctx context.Context) error {
		return s.store.UpdateEntryStatus(ctx, out.ID, models.StatusInService)
	})
	return out, nil
}

// TakeWaitingPatient moves a specific patient's Waiting entry to
// InService, if one exists in the department. Used by priority dispatch so
// a dispatched patient stops counting toward the arrival-rate estimate.
func (s *LedgerService) TakeWaitingPatient(ctx context.Context, patientID string, departmentID int64) (models.QueueEntry, bool) {
	dq := s.department(departmentID)
	dq.mu.Lock()
	for _, e := range dq.waiting {
		if e.PatientID == patientID {
			e.Status = models.StatusInService
			dq.removeWaiting(e.ID)
			out := *e
			dq.mu.Unlock()
			s.persist(ctx, "update entry status", func(ctx context.Context) error {
				return s.store.UpdateEntryStatus(ctx, out.ID, models.StatusInService)
			})
			return out, true
		}
	}
	dq.mu.Unlock()
	return models.QueueEntry{}, false
}

// ListWaiting returns a copy of the department's Waiting entries ascending
// by sequence number. It never mutates state.
func (s *LedgerService) ListWaiting(departmentID int64) []models.QueueEntry {
	dq := s.department(departmentID)
	dq.mu.Lock()
	defer dq.mu.Unlock()
	out := make([]models.QueueEntry, 0, len(dq.waiting))
	for _, e := range dq.waiting {
		out = append(out, *e)
	}
	return out
}

// HistorySince returns hourly queue-length buckets from the store.
func (s *LedgerService) HistorySince(ctx context.Context, departmentID int64, since time.Time) ([]models.QueueHistoryBucket, error) {
	return s.store.QueueHistory(ctx, departmentID, since)
}

// Restore warms the ledger from persisted Waiting entries so sequence
// numbering continues where the previous process stopped.
func (s *LedgerService) Restore(ctx context.Context) error {
	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list departments: %w", err)
	}
	for _, dept := range departments {
		waiting, err := s.store.ListWaiting(ctx, dept.ID)
		if err != nil {
			return fmt.Errorf("failed to load waiting entries for department %d: %w", dept.ID, err)
		}
		sort.Slice(waiting, func(i, j int) bool {
			return waiting[i].SequenceNumber < waiting[j].SequenceNumber
		})
		dq := s.department(dept.ID)
		dq.mu.Lock()
		s.mu.Lock()
		for i := range waiting {
			e := waiting[i]
			dq.waiting = append(dq.waiting, &e)
			if e.SequenceNumber > dq.lastSeq {
				dq.lastSeq = e.SequenceNumber
			}
			s.entries[e.ID] = &e
			if e.ID > s.lastEntryID {
				s.lastEntryID = e.ID
			}
		}
		s.mu.Unlock()
		dq.mu.Unlock()
	}
	return nil
}

func (dq *departmentQueue) removeWaiting(entryID int64) {
	for i, e := range dq.waiting {
		if e.ID == entryID {
			dq.waiting = append(dq.waiting[:i], dq.waiting[i+1:]...)
			return
		}
	}
}

// persist runs a store write with a bounded retry. The in-memory mutation
// already happened; a persistent failure only loses the mirror row, so it
// is logged and dropped.
func (s *LedgerService) persist(ctx context.Context, op string, fn func(ctx context.Context) error) {
	var err error
	for attempt := 1; attempt <= persistAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, persistTimeout)
		err = fn(attemptCtx)
		cancel()
		if err == nil {
			return
		}
		if attempt < persistAttempts {
			time.Sleep(persistBackoff)
		}
	}
	s.log.Error().Err(err).Str("op", op).Msg("store write failed after retries")
}

// Package memstore is an in-memory implementation of the OPD persistence
// accessor, used in tests and local development where no database is
// reachable.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/swasthyaflow/backend/internal/opd/models"
)

type Store struct {
	mu           sync.Mutex
	departments  []models.Department
	availability map[int64]int
	entries      map[int64]*models.QueueEntry
}

func New() *Store {
	return &Store{
		availability: make(map[int64]int),
		entries:      make(map[int64]*models.QueueEntry),
	}
}

// AddDepartment seeds a department with the given available doctor count.
func (s *Store) AddDepartment(id int64, name string, availableDoctors int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments = append(s.departments, models.Department{ID: id, Name: name})
	s.availability[id] = availableDoctors
}

func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Department, len(s.departments))
	copy(out, s.departments)
	return out, nil
}

func (s *Store) ListWaiting(ctx context.Context, departmentID int64) ([]models.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.QueueEntry
	for _, e := range s.entries {
		if e.DepartmentID == departmentID && e.Status == models.StatusWaiting {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (s *Store) CountAvailableDoctors(ctx context.Context, departmentID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availability[departmentID], nil
}

func (s *Store) SetAvailableDoctors(ctx context.Context, departmentID int64, available int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availability[departmentID] = available
	return nil
}

func (s *Store) AppendEntry(ctx context.Context, entry *models.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.ID]; exists {
		return fmt.Errorf("queue entry %d already exists", entry.ID)
	}
	e := *entry
	s.entries[entry.ID] = &e
	return nil
}

func (s *Store) UpdateEntryStatus(ctx context.Context, entryID int64, status models.QueueStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok {
		return fmt.Errorf("queue entry %d not found", entryID)
	}
	e.Status = status
	return nil
}

func (s *Store) QueueHistory(ctx context.Context, departmentID int64, since time.Time) ([]models.QueueHistoryBucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[time.Time]int)
	for _, e := range s.entries {
		if e.DepartmentID != departmentID || e.ArrivalTime.Before(since) {
			continue
		}
		counts[e.ArrivalTime.Truncate(time.Hour)]++
	}
	buckets := make([]models.QueueHistoryBucket, 0, len(counts))
	for hour, length := range counts {
		buckets = append(buckets, models.QueueHistoryBucket{Hour: hour, Length: length})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Hour.Before(buckets[j].Hour) })
	return buckets, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyaflow/backend/internal/opd/models"
	"github.com/swasthyaflow/backend/pkg/storage/memstore"
)

func newTestLedger(t *testing.T) (*LedgerService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	store.AddDepartment(1, "General Medicine", 2)
	return NewLedgerService(store, 15*time.Minute, zerolog.Nop()), store
}

func TestEnqueueAssignsContiguousSequenceNumbers(t *testing.T) {
	ledger, _ := newTestLedger(t)
	const n = 50

	var wg sync.WaitGroup
	seqs := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := ledger.Enqueue(context.Background(), fmt.Sprintf("P-%03d", i), 1)
			require.NoError(t, err)
			seqs <- entry.SequenceNumber
		}(i)
	}
	wg.Wait()
	close(seqs)

	got := make([]int, 0, n)
	for s := range seqs {
		got = append(got, s)
	}
	sort.Ints(got)
	for i, s := range got {
		assert.Equal(t, i+1, s, "sequence numbers must be contiguous from 1")
	}

	waiting := ledger.ListWaiting(1)
	require.Len(t, waiting, n)
	for i := 1; i < len(waiting); i++ {
		assert.Less(t, waiting[i-1].SequenceNumber, waiting[i].SequenceNumber)
	}
}

func TestEnqueueRejectsDuplicateWaitingPatient(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Enqueue(context.Background(), "P-001", 1)
	require.NoError(t, err)

	_, err = ledger.Enqueue(context.Background(), "P-001", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	// Same patient in another department is fine.
	_, err = ledger.Enqueue(context.Background(), "P-001", 2)
	assert.NoError(t, err)
}

func TestEnqueueValidation(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Enqueue(context.Background(), "", 1)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = ledger.Enqueue(context.Background(), "P-001", 0)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestEnqueueEstimatedTime(t *testing.T) {
	ledger, _ := newTestLedger(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return base }

	first, err := ledger.Enqueue(context.Background(), "P-001", 1)
	require.NoError(t, err)
	second, err := ledger.Enqueue(context.Background(), "P-002", 1)
	require.NoError(t, err)

	assert.Equal(t, base.Add(15*time.Minute), first.EstimatedTime)
	assert.Equal(t, base.Add(30*time.Minute), second.EstimatedTime)
}

func TestDequeueForService(t *testing.T) {
	ledger, store := newTestLedger(t)

	first, err := ledger.Enqueue(context.Background(), "P-001", 1)
	require.NoError(t, err)
	_, err = ledger.Enqueue(context.Background(), "P-002", 1)
	require.NoError(t, err)

	served, err := ledger.DequeueForService(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInService, served.Status)

	waiting := ledger.ListWaiting(1)
	require.Len(t, waiting, 1)
	assert.Equal(t, "P-002", waiting[0].PatientID)

	// The store mirror follows.
	persisted, err := store.ListWaiting(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "P-002", persisted[0].PatientID)

	// Serving the same entry twice is a lookup failure.
	_, err = ledger.DequeueForService(context.Background(), first.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDequeueUnknownEntryLeavesStateUnchanged(t *testing.T) {
	ledger, _ := newTestLedger(t)
	_, err := ledger.Enqueue(context.Background(), "P-001", 1)
	require.NoError(t, err)

	_, err = ledger.DequeueForService(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Len(t, ledger.ListWaiting(1), 1)
}

func TestTakeWaitingPatient(t *testing.T) {
	ledger, _ := newTestLedger(t)
	_, err := ledger.Enqueue(context.Background(), "P-001", 1)
	require.NoError(t, err)

	entry, ok := ledger.TakeWaitingPatient(context.Background(), "P-001", 1)
	require.True(t, ok)
	assert.Equal(t, models.StatusInService, entry.Status)
	assert.Empty(t, ledger.ListWaiting(1))

	_, ok = ledger.TakeWaitingPatient(context.Background(), "P-001", 1)
	assert.False(t, ok)
}

func TestHistorySinceBucketsHourly(t *testing.T) {
	store := memstore.New()
	store.AddDepartment(1, "General Medicine", 2)
	ledger := NewLedgerService(store, 15*time.Minute, zerolog.Nop())

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	arrivals := []struct {
		departmentID int64
		at           time.Time
	}{
		{1, base.Add(-2 * time.Hour)},               // before the window
		{1, base.Add(5 * time.Minute)},              // 09:00 bucket
		{1, base.Add(40 * time.Minute)},             // 09:00 bucket
		{1, base.Add(time.Hour + 10*time.Minute)},   // 10:00 bucket
		{1, base.Add(3*time.Hour + time.Minute)},    // 12:00 bucket
		{2, base.Add(10 * time.Minute)},             // other department
	}
	for i, a := range arrivals {
		require.NoError(t, store.AppendEntry(context.Background(), &models.QueueEntry{
			ID:             int64(i + 1),
			PatientID:      fmt.Sprintf("P-%03d", i+1),
			DepartmentID:   a.departmentID,
			SequenceNumber: i + 1,
			ArrivalTime:    a.at,
			Status:         models.StatusWaiting,
		}))
	}

	buckets, err := ledger.HistorySince(context.Background(), 1, base)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	assert.Equal(t, base, buckets[0].Hour)
	assert.Equal(t, 2, buckets[0].Length)
	assert.Equal(t, base.Add(time.Hour), buckets[1].Hour)
	assert.Equal(t, 1, buckets[1].Length)
	assert.Equal(t, base.Add(3*time.Hour), buckets[2].Hour)
	assert.Equal(t, 1, buckets[2].Length)
}

func TestHistorySinceEmptyDepartment(t *testing.T) {
	ledger, _ := newTestLedger(t)
	buckets, err := ledger.HistorySince(context.Background(), 1, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestRestoreContinuesSequenceNumbering(t *testing.T) {
	store := memstore.New()
	store.AddDepartment(1, "General Medicine", 2)
	now := time.Now()
	for i := 1; i <= 3; i++ {
		err := store.AppendEntry(context.Background(), &models.QueueEntry{
			ID:             int64(i),
			PatientID:      fmt.Sprintf("P-%03d", i),
			DepartmentID:   1,
			SequenceNumber: i,
			ArrivalTime:    now.Add(time.Duration(i) * time.Minute),
			Status:         models.StatusWaiting,
		})
		require.NoError(t, err)
	}

	ledger := NewLedgerService(store, 15*time.Minute, zerolog.Nop())
	require.NoError(t, ledger.Restore(context.Background()))

	assert.Len(t, ledger.ListWaiting(1), 3)

	entry, err := ledger.Enqueue(context.Background(), "P-004", 1)
	require.NoError(t, err)
	assert.Equal(t, 4, entry.SequenceNumber)
	assert.Equal(t, int64(4), entry.ID)
}

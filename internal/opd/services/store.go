package services

import (
	"context"
	"time"

	"github.com/swasthyaflow/backend/internal/opd/models"
)

// Store is the persistence capability set the queueing engine depends on.
// Implementations live under pkg/storage; the engine never touches a
// database handle directly.
type Store interface {
	// ListDepartments returns every department the estimator must cover.
	ListDepartments(ctx context.Context) ([]models.Department, error)

	// ListWaiting returns the Waiting entries of a department ascending by
	// sequence number, with arrival timestamps. Used to warm the ledger on
	// startup.
	ListWaiting(ctx context.Context, departmentID int64) ([]models.QueueEntry, error)

	// CountAvailableDoctors returns the number of currently available
	// doctors in a department. The authoritative counts are owned by the
	// staffing collaborator; this is a read accessor.
	CountAvailableDoctors(ctx context.Context, departmentID int64) (int, error)

	// SetAvailableDoctors applies an availability change reported from the
	// boundary.
	SetAvailableDoctors(ctx context.Context, departmentID int64, available int) error

	// AppendEntry persists a freshly enqueued entry.
	AppendEntry(ctx context.Context, entry *models.QueueEntry) error

	// UpdateEntryStatus persists a status transition.
	UpdateEntryStatus(ctx context.Context, entryID int64, status models.QueueStatus) error

	// QueueHistory returns queue-length counts bucketed by hour since the
	// given time, ascending.
	QueueHistory(ctx context.Context, departmentID int64, since time.Time) ([]models.QueueHistoryBucket, error)
}

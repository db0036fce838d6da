package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/swasthyaflow/backend/internal/opd/models"
)

// OPDStore is the SQL-backed persistence accessor the queueing engine is
// wired with.
type OPDStore struct {
	DB *sql.DB
}

func NewOPDStore(db *sql.DB) *OPDStore {
	return &OPDStore{DB: db}
}

func (s *OPDStore) ListDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM department ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (s *OPDStore) ListWaiting(ctx context.Context, departmentID int64) ([]models.QueueEntry, error) {
	query := `
		SELECT id, patient_id, department_id, sequence_number, arrival_time, estimated_time, status
		FROM opd_queue
		WHERE department_id = ? AND status = 'Waiting'
		ORDER BY sequence_number ASC
	`
	rows, err := s.DB.QueryContext(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var entries []models.QueueEntry
	for rows.Next() {
		var e models.QueueEntry
		if err := rows.Scan(&e.ID, &e.PatientID, &e.DepartmentID, &e.SequenceNumber, &e.ArrivalTime, &e.EstimatedTime, &e.Status); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *OPDStore) CountAvailableDoctors(ctx context.Context, departmentID int64) (int, error) {
	var count int
	query := `SELECT COUNT(id) FROM doctor WHERE department_id = ? AND is_available = 1`
	if err := s.DB.QueryRowContext(ctx, query, departmentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count available doctors: %v", err)
	}
	return count, nil
}

// SetAvailableDoctors marks the first N doctors of the department
// available and the rest unavailable. The doctor roster itself is owned by
// the staffing module; this only flips availability flags.
func (s *OPDStore) SetAvailableDoctors(ctx context.Context, departmentID int64, available int) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE doctor SET is_available = 0 WHERE department_id = ?`, departmentID); err != nil {
		return fmt.Errorf("failed to reset doctor availability: %v", err)
	}
	query := `
		UPDATE doctor SET is_available = 1
		WHERE department_id = ?
		ORDER BY id ASC
		LIMIT ?
	`
	if _, err := tx.ExecContext(ctx, query, departmentID, available); err != nil {
		return fmt.Errorf("failed to set doctor availability: %v", err)
	}
	return tx.Commit()
}

func (s *OPDStore) AppendEntry(ctx context.Context, entry *models.QueueEntry) error {
	query := `
		INSERT INTO opd_queue (id, patient_id, department_id, sequence_number, arrival_time, estimated_time, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.DB.ExecContext(ctx, query,
		entry.ID, entry.PatientID, entry.DepartmentID, entry.SequenceNumber,
		entry.ArrivalTime, entry.EstimatedTime, entry.Status)
	if err != nil {
		return fmt.Errorf("failed to insert queue entry: %v", err)
	}
	return nil
}

func (s *OPDStore) UpdateEntryStatus(ctx context.Context, entryID int64, status models.QueueStatus) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE opd_queue SET status = ? WHERE id = ?`, status, entryID)
	if err != nil {
		return fmt.Errorf("failed to update queue entry: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("queue entry %d not found", entryID)
	}
	return nil
}

func (s *OPDStore) QueueHistory(ctx context.Context, departmentID int64, since time.Time) ([]models.QueueHistoryBucket, error) {
	query := `
		SELECT DATE_FORMAT(arrival_time, '%Y-%m-%d %H:00:00') AS bucket, COUNT(id) AS queue_length
		FROM opd_queue
		WHERE department_id = ? AND arrival_time >= ?
		GROUP BY bucket
		ORDER BY bucket ASC
	`
	rows, err := s.DB.QueryContext(ctx, query, departmentID, since)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var buckets []models.QueueHistoryBucket
	for rows.Next() {
		var raw string
		var b models.QueueHistoryBucket
		if err := rows.Scan(&raw, &b.Length); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		b.Hour, err = time.Parse("2006-01-02 15:00:00", raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse history bucket %q: %v", raw, err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

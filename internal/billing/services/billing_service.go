package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/swasthyaflow/backend/internal/billing/models"
)

// DefaultDailyRate is the per-day admission charge used when no rate is
// configured for the hospital.
const DefaultDailyRate = 1000

var ErrPatientNotAdmitted = errors.New("patient not currently admitted")

type BillingService struct {
	DB *sql.DB
}

func NewBillingService(db *sql.DB) *BillingService {
	return &BillingService{DB: db}
}

func (s *BillingService) ListExpenses(hospitalID int64) ([]models.Expense, error) {
	query := `SELECT id, hospital_id, description, amount, date FROM expense WHERE hospital_id = ? ORDER BY date DESC`
	rows, err := s.DB.Query(query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.HospitalID, &e.Description, &e.Amount, &e.Date); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *BillingService) AddExpense(e models.Expense) (int64, error) {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	res, err := s.DB.Exec(
		`INSERT INTO expense (hospital_id, description, amount, date) VALUES (?, ?, ?, ?)`,
		e.HospitalID, e.Description, e.Amount, e.Date)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %v", err)
	}
	return res.LastInsertId()
}

// GenerateBill charges an admitted patient per day since admission.
func (s *BillingService) GenerateBill(patientID int64) (*models.Bill, error) {
	var name string
	var admittedAt sql.NullTime
	query := `SELECT name, admitted_at FROM patient WHERE id = ?`
	err := s.DB.QueryRow(query, patientID).Scan(&name, &admittedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("patient %d not found", patientID)
		}
		return nil, fmt.Errorf("failed to look up patient: %v", err)
	}
	if !admittedAt.Valid {
		return nil, ErrPatientNotAdmitted
	}

	days := int(time.Since(admittedAt.Time).Hours() / 24)
	return &models.Bill{
		PatientID:    patientID,
		PatientName:  name,
		DaysAdmitted: days,
		DailyRate:    DefaultDailyRate,
		Total:        float64(days) * DefaultDailyRate,
	}, nil
}

package models

import "time"

type Expense struct {
	ID          int64     `json:"id"`
	HospitalID  int64     `json:"hospital_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// Bill is a simple length-of-stay charge for an admitted patient.
type Bill struct {
	PatientID    int64   `json:"patient_id"`
	PatientName  string  `json:"patient_name"`
	DaysAdmitted int     `json:"days_admitted"`
	DailyRate    float64 `json:"daily_rate"`
	Total        float64 `json:"total_bill"`
}

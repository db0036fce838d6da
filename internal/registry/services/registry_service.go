package services

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/swasthyaflow/backend/internal/registry/models"
)

type RegistryService struct {
	DB *sql.DB
}

func NewRegistryService(db *sql.DB) *RegistryService {
	return &RegistryService{DB: db}
}

func (s *RegistryService) ListCities() ([]models.City, error) {
	rows, err := s.DB.Query(`SELECT id, name FROM city ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (s *RegistryService) AddCity(name string) (int64, error) {
	res, err := s.DB.Exec(`INSERT INTO city (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert city: %v", err)
	}
	return res.LastInsertId()
}

func (s *RegistryService) ListHospitals() ([]models.Hospital, error) {
	rows, err := s.DB.Query(`SELECT id, name, address, total_beds, available_beds, city_id FROM hospital ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var hospitals []models.Hospital
	for rows.Next() {
		var h models.Hospital
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.TotalBeds, &h.AvailableBeds, &h.CityID); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		hospitals = append(hospitals, h)
	}
	return hospitals, rows.Err()
}

// AddHospital registers a hospital; all beds start available.
func (s *RegistryService) AddHospital(h models.Hospital) (int64, error) {
	res, err := s.DB.Exec(
		`INSERT INTO hospital (name, address, total_beds, available_beds, city_id) VALUES (?, ?, ?, ?, ?)`,
		h.Name, h.Address, h.TotalBeds, h.TotalBeds, h.CityID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert hospital: %v", err)
	}
	return res.LastInsertId()
}

// UpdateBeds sets a hospital's available bed count.
func (s *RegistryService) UpdateBeds(hospitalID int64, availableBeds int) error {
	res, err := s.DB.Exec(`UPDATE hospital SET available_beds = ? WHERE id = ?`, availableBeds, hospitalID)
	if err != nil {
		return fmt.Errorf("failed to update beds: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("hospital %d not found", hospitalID)
	}
	return nil
}

func (s *RegistryService) ListPatients() ([]models.Patient, error) {
	rows, err := s.DB.Query(`SELECT id, name, age, gender, hospital_id FROM patient ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var patients []models.Patient
	for rows.Next() {
		var p models.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.HospitalID); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (s *RegistryService) AddPatient(p models.Patient) (int64, error) {
	res, err := s.DB.Exec(
		`INSERT INTO patient (name, age, gender, hospital_id) VALUES (?, ?, ?, ?)`,
		p.Name, p.Age, p.Gender, p.HospitalID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert patient: %v", err)
	}
	return res.LastInsertId()
}

// PatientFlow reports daily OPD arrivals per department over the last 7
// days, with summary statistics per department.
func (s *RegistryService) PatientFlow() (*models.PatientFlow, error) {
	start := time.Now().Add(-7 * 24 * time.Hour)
	query := `
		SELECT DATE(q.arrival_time) AS day, d.name, COUNT(q.id)
		FROM opd_queue q
		JOIN department d ON q.department_id = d.id
		WHERE q.arrival_time >= ?
		GROUP BY day, d.name
		ORDER BY day ASC
	`
	rows, err := s.DB.Query(query, start)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	daily := make(map[string]map[string]int)
	perDept := make(map[string][]int)
	for rows.Next() {
		var day, dept string
		var count int
		if err := rows.Scan(&day, &dept, &count); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		if daily[day] == nil {
			daily[day] = make(map[string]int)
		}
		daily[day][dept] = count
		perDept[dept] = append(perDept[dept], count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make(map[string]models.FlowStats)
	for dept, counts := range perDept {
		stats[dept] = summarize(dept, counts)
	}
	return &models.PatientFlow{DailyFlow: daily, Statistics: stats}, nil
}

func summarize(dept string, counts []int) models.FlowStats {
	n := len(counts)
	sum := 0
	min, max := counts[0], counts[0]
	for _, c := range counts {
		sum += c
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	mean := float64(sum) / float64(n)

	variance := 0.0
	for _, c := range counts {
		variance += (float64(c) - mean) * (float64(c) - mean)
	}

	sorted := make([]int, n)
	copy(sorted, counts)
	sort.Ints(sorted)

	return models.FlowStats{
		Department: dept,
		Mean:       mean,
		Median:     sorted[n/2],
		StdDev:     math.Sqrt(variance / float64(n)),
		Min:        min,
		Max:        max,
		Trend:      trendSlope(counts),
	}
}

// trendSlope is the least-squares slope of counts over their day index,
// positive when arrivals are growing.
func trendSlope(counts []int) float64 {
	n := len(counts)
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, c := range counts {
		x, y := float64(i), float64(c)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	return (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
}

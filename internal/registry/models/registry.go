package models

// City groups hospitals for discovery.
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Hospital struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	TotalBeds     int    `json:"total_beds"`
	AvailableBeds int    `json:"available_beds"`
	CityID        int64  `json:"city_id"`
}

type Patient struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	HospitalID int64  `json:"hospital_id"`
}

// FlowStats summarizes one department's daily arrival counts over the
// reporting window.
type FlowStats struct {
	Department string  `json:"department"`
	Mean       float64 `json:"mean"`
	Median     int     `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Min        int     `json:"min"`
	Max        int     `json:"max"`
	Trend      float64 `json:"trend"`
}

// PatientFlow is the 7-day flow report: per-day per-department counts
// plus per-department statistics.
type PatientFlow struct {
	DailyFlow  map[string]map[string]int `json:"daily_flow"`
	Statistics map[string]FlowStats      `json:"statistics"`
}

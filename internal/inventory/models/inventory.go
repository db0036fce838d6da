package models

type InventoryItem struct {
	ID         int64   `json:"id"`
	HospitalID int64   `json:"hospital_id"`
	ItemName   string  `json:"item"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

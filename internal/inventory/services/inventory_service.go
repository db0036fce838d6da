package services

import (
	"database/sql"
	"fmt"

	"github.com/swasthyaflow/backend/internal/inventory/models"
)

type InventoryService struct {
	DB *sql.DB
}

func NewInventoryService(db *sql.DB) *InventoryService {
	return &InventoryService{DB: db}
}

func (s *InventoryService) ListItems(hospitalID int64) ([]models.InventoryItem, error) {
	query := `SELECT id, hospital_id, item_name, quantity, unit_price FROM inventory WHERE hospital_id = ? ORDER BY item_name`
	rows, err := s.DB.Query(query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(&item.ID, &item.HospitalID, &item.ItemName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertItem adds quantity to an existing item or creates it. Returns the
// item's state after the write.
func (s *InventoryService) UpsertItem(hospitalID int64, itemName string, quantity int, unitPrice float64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	query := `SELECT id, hospital_id, item_name, quantity, unit_price FROM inventory WHERE hospital_id = ? AND item_name = ?`
	err := s.DB.QueryRow(query, hospitalID, itemName).Scan(&item.ID, &item.HospitalID, &item.ItemName, &item.Quantity, &item.UnitPrice)
	switch {
	case err == sql.ErrNoRows:
		res, err := s.DB.Exec(
			`INSERT INTO inventory (hospital_id, item_name, quantity, unit_price) VALUES (?, ?, ?, ?)`,
			hospitalID, itemName, quantity, unitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to insert inventory item: %v", err)
		}
		id, _ := res.LastInsertId()
		return &models.InventoryItem{ID: id, HospitalID: hospitalID, ItemName: itemName, Quantity: quantity, UnitPrice: unitPrice}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to look up inventory item: %v", err)
	}

	item.Quantity += quantity
	item.UnitPrice = unitPrice
	_, err = s.DB.Exec(`UPDATE inventory SET quantity = ?, unit_price = ? WHERE id = ?`, item.Quantity, item.UnitPrice, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %v", err)
	}
	return &item, nil
}

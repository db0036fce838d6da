package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/swasthyaflow/backend/internal/inventory/services"
	"github.com/swasthyaflow/backend/ws"
)

type InventoryController struct {
	InventoryService *services.InventoryService
	Hub              *ws.Hub
}

func NewInventoryController(service *services.InventoryService, hub *ws.Hub) *InventoryController {
	return &InventoryController{InventoryService: service, Hub: hub}
}

func (ic *InventoryController) ListItemsHandler(c echo.Context) error {
	hospitalID, err := strconv.ParseInt(c.Param("hospital_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "hospital_id must be a number",
			"data":    nil,
		})
	}
	items, err := ic.InventoryService.ListItems(hospitalID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve inventory: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Inventory retrieved",
		"data":    items,
	})
}

type upsertItemRequest struct {
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (ic *InventoryController) UpsertItemHandler(c echo.Context) error {
	hospitalID, err := strconv.ParseInt(c.Param("hospital_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "hospital_id must be a number",
			"data":    nil,
		})
	}
	var req upsertItemRequest
	if err := c.Bind(&req); err != nil || req.ItemName == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "item_name is required",
			"data":    nil,
		})
	}

	item, err := ic.InventoryService.UpsertItem(hospitalID, req.ItemName, req.Quantity, req.UnitPrice)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update inventory: " + err.Error(),
			"data":    nil,
		})
	}

	if message, err := json.Marshal(map[string]interface{}{
		"type":        "inventory_update",
		"hospital_id": hospitalID,
		"item":        item.ItemName,
		"quantity":    item.Quantity,
		"unit_price":  item.UnitPrice,
	}); err == nil {
		ic.Hub.PublishAll(message)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Inventory updated successfully",
		"data":    item,
	})
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/swasthyaflow/backend/internal/billing/models"
	"github.com/swasthyaflow/backend/internal/billing/services"
)

type BillingController struct {
	BillingService *services.BillingService
}

func NewBillingController(service *services.BillingService) *BillingController {
	return &BillingController{BillingService: service}
}

func (bc *BillingController) ListExpensesHandler(c echo.Context) error {
	hospitalID, err := strconv.ParseInt(c.Param("hospital_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "hospital_id must be a number",
			"data":    nil,
		})
	}
	expenses, err := bc.BillingService.ListExpenses(hospitalID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve expenses: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Expenses retrieved",
		"data":    expenses,
	})
}

func (bc *BillingController) AddExpenseHandler(c echo.Context) error {
	hospitalID, err := strconv.ParseInt(c.Param("hospital_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "hospital_id must be a number",
			"data":    nil,
		})
	}
	var req models.Expense
	if err := c.Bind(&req); err != nil || req.Description == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "description is required",
			"data":    nil,
		})
	}
	req.HospitalID = hospitalID

	id, err := bc.BillingService.AddExpense(req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to add expense: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Expense added successfully",
		"data":    map[string]interface{}{"id": id},
	})
}

func (bc *BillingController) GenerateBillHandler(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("patient_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "patient_id must be a number",
			"data":    nil,
		})
	}
	bill, err := bc.BillingService.GenerateBill(patientID)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotAdmitted) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": "Patient not currently admitted",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to generate bill: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Bill generated",
		"data":    bill,
	})
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/swasthyaflow/backend/internal/opd/models"
	"github.com/swasthyaflow/backend/internal/opd/services"
)

type QueueController struct {
	Ingest    *services.IngestService
	Ledger    *services.LedgerService
	Estimator *services.EstimatorService
	Dispatch  *services.DispatchService
}

func NewQueueController(ingest *services.IngestService, ledger *services.LedgerService, estimator *services.EstimatorService, dispatch *services.DispatchService) *QueueController {
	return &QueueController{Ingest: ingest, Ledger: ledger, Estimator: estimator, Dispatch: dispatch}
}

type joinQueueRequest struct {
	PatientID    string `json:"patient_id"`
	DepartmentID int64  `json:"department_id"`
}

// JoinQueueHandler accepts a new arrival. The event is acknowledged
// immediately and processed asynchronously; the assigned position is
// published to the department's subscribers.
func (qc *QueueController) JoinQueueHandler(c echo.Context) error {
	var req joinQueueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "invalid request body",
			"data":    nil,
		})
	}
	if req.PatientID == "" || req.DepartmentID <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "patient_id and department_id are required",
			"data":    nil,
		})
	}

	accepted := qc.Ingest.Submit(models.Event{
		Type:         models.EventNewPatient,
		PatientID:    req.PatientID,
		DepartmentID: req.DepartmentID,
	})
	if !accepted {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":  http.StatusServiceUnavailable,
			"message": "queue intake is overloaded, try again",
			"data":    nil,
		})
	}
	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"status":  http.StatusAccepted,
		"message": "Added to OPD queue",
		"data":    nil,
	})
}

type availabilityRequest struct {
	DepartmentID     int64 `json:"department_id"`
	AvailableDoctors int   `json:"available_doctors"`
}

// AvailabilityHandler accepts a doctor-availability change.
func (qc *QueueController) AvailabilityHandler(c echo.Context) error {
	var req availabilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "invalid request body",
			"data":    nil,
		})
	}
	if req.DepartmentID <= 0 || req.AvailableDoctors < 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "department_id and a non-negative available_doctors are required",
			"data":    nil,
		})
	}

	accepted := qc.Ingest.Submit(models.Event{
		Type:             models.EventAvailabilityChanged,
		DepartmentID:     req.DepartmentID,
		AvailableDoctors: req.AvailableDoctors,
	})
	if !accepted {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":  http.StatusServiceUnavailable,
			"message": "queue intake is overloaded, try again",
			"data":    nil,
		})
	}
	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"status":  http.StatusAccepted,
		"message": "Availability change accepted",
		"data":    nil,
	})
}

// QueueMetricsHandler returns the current metric snapshot for every
// department.
func (qc *QueueController) QueueMetricsHandler(c echo.Context) error {
	snapshots, err := qc.Estimator.SnapshotAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to compute queue metrics: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Queue metrics computed",
		"data":    snapshots,
	})
}

// QueueStatusHandler lists a department's Waiting entries ascending by
// sequence number.
func (qc *QueueController) QueueStatusHandler(c echo.Context) error {
	departmentID, err := strconv.ParseInt(c.Param("department_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "department_id must be a number",
			"data":    nil,
		})
	}
	waiting := qc.Ledger.ListWaiting(departmentID)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Queue status retrieved",
		"data": map[string]interface{}{
			"queue":            waiting,
			"patients_queuing": len(waiting),
		},
	})
}

// QueueHistoryHandler returns the last 24 hours of queue length, bucketed
// hourly.
func (qc *QueueController) QueueHistoryHandler(c echo.Context) error {
	departmentID, err := strconv.ParseInt(c.QueryParam("department_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "department_id must be a number",
			"data":    nil,
		})
	}
	since := time.Now().Add(-24 * time.Hour)
	buckets, err := qc.Ledger.HistorySince(c.Request().Context(), departmentID, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve queue history: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Queue history retrieved",
		"data":    buckets,
	})
}

// ServePatientHandler moves a Waiting entry into service. Synchronous:
// NotFound surfaces to the caller directly.
func (qc *QueueController) ServePatientHandler(c echo.Context) error {
	entryID, err := strconv.ParseInt(c.QueryParam("entry_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "entry_id must be a number",
			"data":    nil,
		})
	}
	entry, err := qc.Ledger.DequeueForService(c.Request().Context(), entryID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to serve patient: " + err.Error(),
			"data":    nil,
		})
	}
	qc.Estimator.RecomputeDepartment(c.Request().Context(), entry.DepartmentID)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patient moved into service",
		"data":    entry,
	})
}

type dispatchRequest struct {
	PatientID    string `json:"patient_id"`
	DepartmentID int64  `json:"department_id"`
	Priority     int    `json:"priority"`
}

// DispatchAddHandler queues a patient for priority dispatch.
func (qc *QueueController) DispatchAddHandler(c echo.Context) error {
	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "invalid request body",
			"data":    nil,
		})
	}
	ticket, err := qc.Dispatch.AddPatient(req.PatientID, req.DepartmentID, req.Priority)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patient added to dispatch queue",
		"data":    ticket,
	})
}

// DispatchNextHandler pops the most urgent dispatch ticket. An empty queue
// is reported as 404 with an explicit message, not an error payload.
func (qc *QueueController) DispatchNextHandler(c echo.Context) error {
	ticket, err := qc.Dispatch.NextPatient(c.Request().Context())
	if err != nil {
		if errors.Is(err, services.ErrQueueEmpty) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Queue is empty",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to dispatch patient: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patient dispatched",
		"data":    ticket,
	})
}

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/swasthyaflow/backend/internal/registry/models"
	"github.com/swasthyaflow/backend/internal/registry/services"
	"github.com/swasthyaflow/backend/ws"
)

type RegistryController struct {
	RegistryService *services.RegistryService
	Hub             *ws.Hub
}

func NewRegistryController(service *services.RegistryService, hub *ws.Hub) *RegistryController {
	return &RegistryController{RegistryService: service, Hub: hub}
}

func (rc *RegistryController) ListCitiesHandler(c echo.Context) error {
	cities, err := rc.RegistryService.ListCities()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve cities: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Cities retrieved",
		"data":    cities,
	})
}

func (rc *RegistryController) AddCityHandler(c echo.Context) error {
	var req models.City
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "name is required",
			"data":    nil,
		})
	}
	id, err := rc.RegistryService.AddCity(req.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to add city: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "City added successfully",
		"data":    map[string]interface{}{"id": id},
	})
}

func (rc *RegistryController) ListHospitalsHandler(c echo.Context) error {
	hospitals, err := rc.RegistryService.ListHospitals()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve hospitals: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Hospitals retrieved",
		"data":    hospitals,
	})
}

func (rc *RegistryController) AddHospitalHandler(c echo.Context) error {
	var req models.Hospital
	if err := c.Bind(&req); err != nil || req.Name == "" || req.CityID <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "name and city_id are required",
			"data":    nil,
		})
	}
	id, err := rc.RegistryService.AddHospital(req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to add hospital: " + err.Error(),
			"data":    nil,
		})
	}

	rc.broadcast(map[string]interface{}{
		"type":           "hospital_update",
		"id":             id,
		"name":           req.Name,
		"available_beds": req.TotalBeds,
	})
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Hospital added successfully",
		"data":    map[string]interface{}{"id": id},
	})
}

func (rc *RegistryController) UpdateBedsHandler(c echo.Context) error {
	hospitalID, err := strconv.ParseInt(c.Param("hospital_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "hospital_id must be a number",
			"data":    nil,
		})
	}
	var req struct {
		AvailableBeds int `json:"available_beds"`
	}
	if err := c.Bind(&req); err != nil || req.AvailableBeds < 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "a non-negative available_beds is required",
			"data":    nil,
		})
	}
	if err := rc.RegistryService.UpdateBeds(hospitalID, req.AvailableBeds); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update beds: " + err.Error(),
			"data":    nil,
		})
	}

	rc.broadcast(map[string]interface{}{
		"type":           "bed_update",
		"hospital_id":    hospitalID,
		"available_beds": req.AvailableBeds,
	})
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Bed availability updated successfully",
		"data":    nil,
	})
}

func (rc *RegistryController) ListPatientsHandler(c echo.Context) error {
	patients, err := rc.RegistryService.ListPatients()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve patients: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patients retrieved",
		"data":    patients,
	})
}

func (rc *RegistryController) AddPatientHandler(c echo.Context) error {
	var req models.Patient
	if err := c.Bind(&req); err != nil || req.Name == "" || req.HospitalID <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "name and hospital_id are required",
			"data":    nil,
		})
	}
	id, err := rc.RegistryService.AddPatient(req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to register patient: " + err.Error(),
			"data":    nil,
		})
	}

	rc.broadcast(map[string]interface{}{
		"type":        "patient_update",
		"id":          id,
		"name":        req.Name,
		"hospital_id": req.HospitalID,
	})
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Patient registered successfully",
		"data":    map[string]interface{}{"id": id},
	})
}

func (rc *RegistryController) PatientFlowHandler(c echo.Context) error {
	flow, err := rc.RegistryService.PatientFlow()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to compute patient flow: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patient flow computed",
		"data":    flow,
	})
}

func (rc *RegistryController) broadcast(payload map[string]interface{}) {
	if message, err := json.Marshal(payload); err == nil {
		rc.Hub.PublishAll(message)
	}
}

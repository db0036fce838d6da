package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyaflow/backend/internal/opd/services"
	"github.com/swasthyaflow/backend/pkg/storage/memstore"
)

type nopPublisher struct{}

func (nopPublisher) PublishTopic(string, []byte) {}

func newTestController(t *testing.T) (*QueueController, *services.IngestService) {
	t.Helper()
	store := memstore.New()
	store.AddDepartment(1, "General Medicine", 2)
	ledger := services.NewLedgerService(store, 15*time.Minute, zerolog.Nop())
	estimator := services.NewEstimatorService(store, ledger, nopPublisher{}, 15, zerolog.Nop())
	dispatch := services.NewDispatchService(services.NewPriorityDispatchQueue(), ledger, nopPublisher{}, zerolog.Nop())
	ingest := services.NewIngestService(1, 8, ledger, store, estimator, nopPublisher{}, zerolog.Nop())
	return NewQueueController(ingest, ledger, estimator, dispatch), ingest
}

func doJSON(t *testing.T, handler echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func TestJoinQueueAccepted(t *testing.T) {
	qc, ingest := newTestController(t)
	ingest.Start(context.Background())
	defer ingest.Stop()

	rec := doJSON(t, qc.JoinQueueHandler, http.MethodPost, "/api/opd/queue",
		`{"patient_id":"P-001","department_id":1}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestJoinQueueValidation(t *testing.T) {
	qc, _ := newTestController(t)

	rec := doJSON(t, qc.JoinQueueHandler, http.MethodPost, "/api/opd/queue",
		`{"patient_id":"","department_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinQueueOverloaded(t *testing.T) {
	// Workers not started and a one-slot buffer: the second request must
	// be turned away with 503.
	store := memstore.New()
	store.AddDepartment(1, "General Medicine", 2)
	ledger := services.NewLedgerService(store, 15*time.Minute, zerolog.Nop())
	estimator := services.NewEstimatorService(store, ledger, nopPublisher{}, 15, zerolog.Nop())
	dispatch := services.NewDispatchService(services.NewPriorityDispatchQueue(), ledger, nopPublisher{}, zerolog.Nop())
	ingest := services.NewIngestService(1, 1, ledger, store, estimator, nopPublisher{}, zerolog.Nop())
	qc := NewQueueController(ingest, ledger, estimator, dispatch)

	body := `{"patient_id":"P-001","department_id":1}`
	rec := doJSON(t, qc.JoinQueueHandler, http.MethodPost, "/api/opd/queue", body)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = doJSON(t, qc.JoinQueueHandler, http.MethodPost, "/api/opd/queue",
		`{"patient_id":"P-002","department_id":1}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQueueStatusHandler(t *testing.T) {
	qc, _ := newTestController(t)
	_, err := qc.Ledger.Enqueue(context.Background(), "P-001", 1)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("department_id")
	c.SetParamValues("1")
	require.NoError(t, qc.QueueStatusHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			PatientsQueuing int `json:"patients_queuing"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.PatientsQueuing)
}

func TestQueueMetricsHandler(t *testing.T) {
	qc, _ := newTestController(t)

	rec := doJSON(t, qc.QueueMetricsHandler, http.MethodGet, "/api/opd/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			DepartmentID int64 `json:"department_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(1), resp.Data[0].DepartmentID)
}

func TestQueueHistoryHandler(t *testing.T) {
	qc, _ := newTestController(t)
	_, err := qc.Ledger.Enqueue(context.Background(), "P-001", 1)
	require.NoError(t, err)
	_, err = qc.Ledger.Enqueue(context.Background(), "P-002", 1)
	require.NoError(t, err)

	rec := doJSON(t, qc.QueueHistoryHandler, http.MethodGet, "/api/opd/queue/history?department_id=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			Length int `json:"length"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Both arrivals land inside the 24h window; they may straddle an hour
	// boundary, so assert the total across buckets.
	total := 0
	for _, b := range resp.Data {
		total += b.Length
	}
	assert.Equal(t, 2, total)
}

func TestQueueHistoryHandlerBadDepartment(t *testing.T) {
	qc, _ := newTestController(t)
	rec := doJSON(t, qc.QueueHistoryHandler, http.MethodGet, "/api/opd/queue/history?department_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServePatientNotFound(t *testing.T) {
	qc, _ := newTestController(t)

	rec := doJSON(t, qc.ServePatientHandler, http.MethodPost, "/api/opd/serve?entry_id=99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServePatientMovesEntryIntoService(t *testing.T) {
	qc, _ := newTestController(t)
	entry, err := qc.Ledger.Enqueue(context.Background(), "P-001", 1)
	require.NoError(t, err)

	rec := doJSON(t, qc.ServePatientHandler, http.MethodPost, "/api/opd/serve?entry_id=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, qc.Ledger.ListWaiting(entry.DepartmentID))
}

func TestDispatchHandlers(t *testing.T) {
	qc, _ := newTestController(t)

	rec := doJSON(t, qc.DispatchNextHandler, http.MethodPost, "/api/opd/dispatch/next", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, qc.DispatchAddHandler, http.MethodPost, "/api/opd/dispatch",
		`{"patient_id":"P-001","department_id":1,"priority":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, qc.DispatchNextHandler, http.MethodPost, "/api/opd/dispatch/next", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			PatientID string `json:"patient_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "P-001", resp.Data.PatientID)
}

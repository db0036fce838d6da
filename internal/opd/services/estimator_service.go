package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/swasthyaflow/backend/internal/opd/models"
)

// Publisher is the fan-out sink metric snapshots are pushed to. The ws hub
// implements it; slow or disconnected subscribers are its problem, not the
// estimator's.
type Publisher interface {
	PublishTopic(topic string, message []byte)
}

// DepartmentTopic is the subscription topic snapshots for one department
// are published on.
func DepartmentTopic(departmentID int64) string {
	return fmt.Sprintf("department:%d", departmentID)
}

// EstimatorService recomputes wait-time metrics from live queue state and
// broadcasts them. It only reads the ledger and the store; it never
// mutates queue state.
type EstimatorService struct {
	store       Store
	ledger      *LedgerService
	pub         Publisher
	log         zerolog.Logger
	serviceRate float64 // consultations per minute
	now         func() time.Time
}

// NewEstimatorService builds an estimator assuming the given mean service
// time in minutes (mu = 1/serviceTimeMinutes per minute).
func NewEstimatorService(store Store, ledger *LedgerService, pub Publisher, serviceTimeMinutes float64, log zerolog.Logger) *EstimatorService {
	return &EstimatorService{
		store:       store,
		ledger:      ledger,
		pub:         pub,
		log:         log,
		serviceRate: 1 / serviceTimeMinutes,
		now:         time.Now,
	}
}

// Snapshot computes a fresh metric snapshot for one department. With no
// available doctors, no waiting patients or fewer than two arrival samples
// the metrics are all zero; the M/M/c formulas are never entered with a
// zero arrival rate.
func (s *EstimatorService) Snapshot(ctx context.Context, dept models.Department) (models.MetricSnapshot, error) {
	available, err := s.store.CountAvailableDoctors(ctx, dept.ID)
	if err != nil {
		return models.MetricSnapshot{}, fmt.Errorf("failed to read doctor availability for department %d: %w", dept.ID, err)
	}
	waiting := s.ledger.ListWaiting(dept.ID)

	snapshot := models.MetricSnapshot{
		DepartmentID:     dept.ID,
		DepartmentName:   dept.Name,
		WaitingPatients:  len(waiting),
		AvailableDoctors: available,
		ServiceRate:      round2(s.serviceRate),
		ComputedAt:       s.now(),
	}

	if available == 0 || len(waiting) == 0 {
		return zeroMetrics(snapshot), nil
	}
	arrivalRate := estimateArrivalRate(waiting)
	if arrivalRate == 0 {
		return zeroMetrics(snapshot), nil
	}
	snapshot.ArrivalRate = round2(arrivalRate)

	model := NewQueuingModel(available, arrivalRate, s.serviceRate)
	if u, ok := model.Utilization(); ok {
		snapshot.Utilization = ptr(round2(u))
	}
	if w, ok := model.WaitTime(); ok {
		snapshot.EstimatedWaitTime = ptr(round2(w))
	} else {
		snapshot.Unstable = true
	}
	snapshot.ProbabilityOfWaiting = round2(model.ProbabilityOfWaiting())
	return snapshot, nil
}

// SnapshotAll computes snapshots for every department, for the query
// surface. Nothing is published.
func (s *EstimatorService) SnapshotAll(ctx context.Context) ([]models.MetricSnapshot, error) {
	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	snapshots := make([]models.MetricSnapshot, 0, len(departments))
	for _, dept := range departments {
		snap, err := s.Snapshot(ctx, dept)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// RecomputeDepartment runs one estimator pass for a department and
// publishes the result to its subscribers. The department name is resolved
// through the store so event-triggered snapshots carry the same fields as
// subscription sweeps.
func (s *EstimatorService) RecomputeDepartment(ctx context.Context, departmentID int64) {
	dept := models.Department{ID: departmentID}
	if departments, err := s.store.ListDepartments(ctx); err == nil {
		for _, d := range departments {
			if d.ID == departmentID {
				dept = d
				break
			}
		}
	}
	snap, err := s.Snapshot(ctx, dept)
	if err != nil {
		s.log.Error().Err(err).Int64("department_id", departmentID).Msg("estimator pass failed")
		return
	}
	s.publish(snap)
}

// RecomputeAll runs an estimator pass for every department. Triggered on
// each new subscription so fresh clients see current numbers immediately.
func (s *EstimatorService) RecomputeAll(ctx context.Context) {
	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("estimator sweep failed to list departments")
		return
	}
	for _, dept := range departments {
		snap, err := s.Snapshot(ctx, dept)
		if err != nil {
			s.log.Error().Err(err).Int64("department_id", dept.ID).Msg("estimator pass failed")
			continue
		}
		s.publish(snap)
	}
}

func (s *EstimatorService) publish(snap models.MetricSnapshot) {
	msg := models.QueueMetricsUpdated{
		Type:         models.PubQueueMetrics,
		DepartmentID: snap.DepartmentID,
		Snapshot:     snap,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal metric snapshot")
		return
	}
	s.pub.PublishTopic(DepartmentTopic(snap.DepartmentID), payload)
}

// estimateArrivalRate derives lambda (patients per minute) from the mean
// inter-arrival gap of the currently waiting entries. Fewer than two
// samples give no gap to average, so the rate is zero.
func estimateArrivalRate(waiting []models.QueueEntry) float64 {
	if len(waiting) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(waiting); i++ {
		total += waiting[i].ArrivalTime.Sub(waiting[i-1].ArrivalTime).Minutes()
	}
	mean := total / float64(len(waiting)-1)
	if mean <= 0 {
		return 0
	}
	return 1 / mean
}

func zeroMetrics(snapshot models.MetricSnapshot) models.MetricSnapshot {
	snapshot.ArrivalRate = 0
	snapshot.Utilization = ptr(0.0)
	snapshot.EstimatedWaitTime = ptr(0.0)
	snapshot.ProbabilityOfWaiting = 0
	return snapshot
}

func ptr(v float64) *float64 { return &v }

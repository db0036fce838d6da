package services

import "math"

// QueuingModel is the analytical M/M/c model behind OPD wait estimates.
// Rates are events per minute. The model is pure: no I/O, no rounding;
// results are rounded to 2 decimals only when a snapshot is assembled.
type QueuingModel struct {
	NumDoctors  int     // c
	ArrivalRate float64 // lambda
	ServiceRate float64 // mu
}

// NewQueuingModel builds a model for c doctors with the given rates.
func NewQueuingModel(numDoctors int, arrivalRate, serviceRate float64) QueuingModel {
	return QueuingModel{NumDoctors: numDoctors, ArrivalRate: arrivalRate, ServiceRate: serviceRate}
}

// stable reports whether the system can drain its load: rho < 1 with at
// least one doctor. A zero arrival rate is always stable.
func (m QueuingModel) stable() bool {
	if m.ArrivalRate == 0 {
		return true
	}
	if m.NumDoctors <= 0 {
		return false
	}
	return m.ArrivalRate/(float64(m.NumDoctors)*m.ServiceRate) < 1
}

// Utilization returns rho = lambda / (c*mu). ok is false when the system
// is unstable (c = 0 with arriving load); there is no numeric value then.
func (m QueuingModel) Utilization() (float64, bool) {
	if m.ArrivalRate == 0 {
		return 0, true
	}
	if m.NumDoctors <= 0 {
		return 0, false
	}
	return m.ArrivalRate / (float64(m.NumDoctors) * m.ServiceRate), true
}

// erlangP0 computes the probability of zero patients in the system for the
// stable case. Callers must have checked stability.
func (m QueuingModel) erlangP0(rho float64) float64 {
	c := float64(m.NumDoctors)
	sum := 0.0
	for n := 0; n < m.NumDoctors; n++ {
		sum += math.Pow(c*rho, float64(n)) / factorial(n)
	}
	sum += math.Pow(c*rho, c) / (factorial(m.NumDoctors) * (1 - rho))
	return 1 / sum
}

// WaitTime returns the expected time in queue Wq in minutes (Erlang C).
// ok is false when the system is unstable; the wait is unbounded and no
// numeric estimate exists.
func (m QueuingModel) WaitTime() (float64, bool) {
	if m.ArrivalRate == 0 {
		return 0, true
	}
	if !m.stable() {
		return 0, false
	}
	rho := m.ArrivalRate / (float64(m.NumDoctors) * m.ServiceRate)
	c := float64(m.NumDoctors)
	p0 := m.erlangP0(rho)
	lq := (p0 * math.Pow(c*rho, c) * rho) / (factorial(m.NumDoctors) * (1 - rho) * (1 - rho))
	return lq / m.ArrivalRate, true
}

// ProbabilityOfWaiting returns the Erlang C probability that an arriving
// patient has to wait. An unstable system returns exactly 1.
func (m QueuingModel) ProbabilityOfWaiting() float64 {
	if m.ArrivalRate == 0 {
		return 0
	}
	if !m.stable() {
		return 1
	}
	rho := m.ArrivalRate / (float64(m.NumDoctors) * m.ServiceRate)
	c := float64(m.NumDoctors)
	p0 := m.erlangP0(rho)
	return math.Pow(c*rho, c) * p0 / (factorial(m.NumDoctors) * (1 - rho))
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// round2 rounds to 2 decimal places. Only snapshot assembly uses it; the
// model itself stays full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

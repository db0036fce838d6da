package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuingModelZeroArrivalRate(t *testing.T) {
	m := NewQueuingModel(3, 0, 1.0/15)

	u, ok := m.Utilization()
	assert.True(t, ok)
	assert.Zero(t, u)

	w, ok := m.WaitTime()
	assert.True(t, ok)
	assert.Zero(t, w)

	assert.Zero(t, m.ProbabilityOfWaiting())
}

func TestQueuingModelNoDoctors(t *testing.T) {
	m := NewQueuingModel(0, 0.2, 1.0/15)

	_, ok := m.Utilization()
	assert.False(t, ok)

	_, ok = m.WaitTime()
	assert.False(t, ok)

	assert.Equal(t, 1.0, m.ProbabilityOfWaiting())
}

func TestQueuingModelUnstable(t *testing.T) {
	// lambda = 0.2/min against a capacity of 2/15 per minute: rho = 1.5.
	m := NewQueuingModel(2, 0.2, 1.0/15)

	u, ok := m.Utilization()
	require.True(t, ok)
	assert.InDelta(t, 1.5, u, 1e-9)

	_, ok = m.WaitTime()
	assert.False(t, ok)

	assert.Equal(t, 1.0, m.ProbabilityOfWaiting())
}

func TestQueuingModelErlangC(t *testing.T) {
	// Three doctors at 15 minutes per consultation, one arrival every
	// 10 minutes: rho = 0.5, p0 = 1/4.75, Wq = 2.3684... minutes.
	m := NewQueuingModel(3, 0.1, 1.0/15)

	u, ok := m.Utilization()
	require.True(t, ok)
	assert.InDelta(t, 0.5, u, 1e-9)

	w, ok := m.WaitTime()
	require.True(t, ok)
	assert.InDelta(t, 2.368421, w, 1e-6)

	assert.InDelta(t, 0.236842, m.ProbabilityOfWaiting(), 1e-6)
}

func TestQueuingModelWaitGrowsWithLoad(t *testing.T) {
	// Capacity is 3/15 = 0.2 per minute; waits must grow strictly as
	// lambda approaches it.
	rates := []float64{0.05, 0.1, 0.15, 0.19, 0.199}
	prev := -1.0
	for _, lambda := range rates {
		w, ok := NewQueuingModel(3, lambda, 1.0/15).WaitTime()
		require.True(t, ok, "lambda=%v should be stable", lambda)
		assert.Greater(t, w, prev, "lambda=%v", lambda)
		prev = w
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.37, round2(2.368421))
	assert.Equal(t, 0.24, round2(0.236842))
	assert.Equal(t, 0.0, round2(0))
}

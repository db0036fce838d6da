package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	stats := summarize("General Medicine", []int{4, 8, 6})

	assert.Equal(t, "General Medicine", stats.Department)
	assert.InDelta(t, 6.0, stats.Mean, 1e-9)
	assert.Equal(t, 6, stats.Median)
	assert.InDelta(t, 1.632993, stats.StdDev, 1e-6)
	assert.Equal(t, 4, stats.Min)
	assert.Equal(t, 8, stats.Max)
	assert.InDelta(t, 1.0, stats.Trend, 1e-9)
}

func TestTrendSlope(t *testing.T) {
	assert.Zero(t, trendSlope(nil))
	assert.Zero(t, trendSlope([]int{5}))
	assert.InDelta(t, 2.0, trendSlope([]int{1, 3, 5, 7}), 1e-9)
	assert.InDelta(t, -1.0, trendSlope([]int{3, 2, 1}), 1e-9)
	assert.Zero(t, trendSlope([]int{4, 4, 4}))
}

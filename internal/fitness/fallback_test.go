package fitness

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/stretchr/testify/assert"
)

func decimals(v float64, n int) bool {
	p := math.Pow10(n)
	return math.Abs(v*p-math.Round(v*p)) < 1e-9
}

func TestGenerator_Ranges(t *testing.T) {
	g := NewGenerator(rand.NewPCG(1, 2))
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 2000; i++ {
		s := g.Snapshot(now)
		assert.GreaterOrEqual(t, s.Steps, 2000)
		assert.Less(t, s.Steps, 7000)
		assert.GreaterOrEqual(t, s.CaloriesBurned, 100.0)
		assert.Less(t, s.CaloriesBurned, 400.0)
		assert.GreaterOrEqual(t, s.ActiveMinutes, 15)
		assert.Less(t, s.ActiveMinutes, 75)
		assert.GreaterOrEqual(t, s.Distance, 1.0)
		assert.LessOrEqual(t, s.Distance, 4.0)
		assert.True(t, decimals(s.Distance, 2))
		assert.GreaterOrEqual(t, s.HeartRate.Current, 65)
		assert.Less(t, s.HeartRate.Current, 95)
		assert.GreaterOrEqual(t, s.HeartRate.Resting, 60)
		assert.Less(t, s.HeartRate.Resting, 70)
		assert.GreaterOrEqual(t, s.HeartRate.Max, 140)
		assert.Less(t, s.HeartRate.Max, 160)
		assert.GreaterOrEqual(t, s.SleepData.Duration, 6.0)
		assert.LessOrEqual(t, s.SleepData.Duration, 9.0)
		assert.Contains(t, internal.SleepQualities, s.SleepData.Quality)
		assert.GreaterOrEqual(t, s.SleepData.DeepSleep, 0.5)
		assert.LessOrEqual(t, s.SleepData.DeepSleep, 2.5)
		assert.True(t, decimals(s.SleepData.DeepSleep, 1))
		assert.Equal(t, now, s.LastUpdated)
		assert.Equal(t, internal.SourceFallback, s.Provenance.Steps)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	now := time.Now()
	a := NewGenerator(rand.NewPCG(7, 7)).Snapshot(now)
	b := NewGenerator(rand.NewPCG(7, 7)).Snapshot(now)
	assert.Equal(t, a, b)
}

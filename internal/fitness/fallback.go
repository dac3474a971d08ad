package fitness

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Sujal861/Omi-Mentor/internal"
)

// Generator produces plausible fitness values for everything the provider
// does not report.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator uses src for randomness; nil seeds from the clock.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.NewPCG(seed, seed>>1|1)
	}
	return &Generator{rng: rand.New(src)}
}

// intRange returns an int in [lo, lo+span).
func (g *Generator) intRange(lo, span int) int {
	return g.rng.IntN(span) + lo
}

func (g *Generator) floatRange(lo, span float64, decimals int) float64 {
	return roundTo(g.rng.Float64()*span+lo, decimals)
}

// Snapshot returns a fully generated snapshot stamped with now.
func (g *Generator) Snapshot(now time.Time) *internal.FitnessSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &internal.FitnessSnapshot{
		Steps:          g.intRange(2000, 5000),
		CaloriesBurned: float64(g.intRange(100, 300)),
		ActiveMinutes:  g.intRange(15, 60),
		Distance:       g.floatRange(1, 3, 2),
		HeartRate: internal.HeartRate{
			Current: g.intRange(65, 30),
			Resting: g.intRange(60, 10),
			Max:     g.intRange(140, 20),
		},
		SleepData: internal.SleepData{
			Duration:  g.floatRange(6, 3, 1),
			Quality:   internal.SleepQualities[g.rng.IntN(len(internal.SleepQualities))],
			DeepSleep: g.floatRange(0.5, 2, 1),
		},
		LastUpdated: now,
		Provenance: internal.Provenance{
			Steps:    internal.SourceFallback,
			Calories: internal.SourceFallback,
		},
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

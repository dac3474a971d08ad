package health

import (
	"testing"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/stretchr/testify/assert"
)

func snapshot(heartRate int, sleepHours float64) *internal.FitnessSnapshot {
	return &internal.FitnessSnapshot{
		HeartRate: internal.HeartRate{Current: heartRate, Resting: 62, Max: 150},
		SleepData: internal.SleepData{Duration: sleepHours, Quality: internal.SleepFair, DeepSleep: 1.2},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		snap *internal.FitnessSnapshot
		want internal.HealthAssessment
	}{
		{"nil snapshot", nil, internal.HealthAssessment{}},
		{"healthy", snapshot(80, 7.5), internal.HealthAssessment{}},
		{"heart rate at limit", snapshot(100, 7), internal.HealthAssessment{}},
		{"sleep at limit", snapshot(70, 6), internal.HealthAssessment{}},
		{
			"high heart rate",
			snapshot(110, 8),
			internal.HealthAssessment{HasIssue: true, Message: "Your heart rate is high (110 bpm). Consider taking a break and practicing deep breathing."},
		},
		{
			"short sleep",
			snapshot(70, 5.5),
			internal.HealthAssessment{HasIssue: true, Message: "You only got 5.5 hours of sleep last night. Try to get at least 7 hours of sleep for better health."},
		},
		{
			"whole hours print without decimals",
			snapshot(70, 5),
			internal.HealthAssessment{HasIssue: true, Message: "You only got 5 hours of sleep last night. Try to get at least 7 hours of sleep for better health."},
		},
		{
			"heart rate wins over sleep",
			snapshot(101, 4),
			internal.HealthAssessment{HasIssue: true, Message: "Your heart rate is high (101 bpm). Consider taking a break and practicing deep breathing."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.snap))
		})
	}
}

func TestThresholds_Custom(t *testing.T) {
	th := DefaultThresholds
	th.HighHeartRate = 90
	assert.True(t, th.Evaluate(snapshot(95, 8)).HasIssue)
	assert.False(t, Evaluate(snapshot(95, 8)).HasIssue)
}

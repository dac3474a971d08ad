package health

import (
	"fmt"
	"strconv"

	"github.com/Sujal861/Omi-Mentor/internal"
)

// Thresholds configures the rules. Stress and blood pressure limits are
// kept for parity with the profile settings but no rule reads them yet.
type Thresholds struct {
	HighHeartRate     int     // bpm, exclusive
	LowSleepHours     float64 // hours, exclusive
	HighStressLevel   int     // percent
	HighBloodPressure int     // systolic mmHg
}

var DefaultThresholds = Thresholds{
	HighHeartRate:     100,
	LowSleepHours:     6,
	HighStressLevel:   70,
	HighBloodPressure: 140,
}

// Evaluate applies DefaultThresholds.
func Evaluate(s *internal.FitnessSnapshot) internal.HealthAssessment {
	return DefaultThresholds.Evaluate(s)
}

// Evaluate returns the first matching issue: high heart rate, then short
// sleep. A nil snapshot has no issue.
func (t Thresholds) Evaluate(s *internal.FitnessSnapshot) internal.HealthAssessment {
	if s == nil {
		return internal.HealthAssessment{}
	}
	if s.HeartRate.Current > t.HighHeartRate {
		return internal.HealthAssessment{
			HasIssue: true,
			Message: fmt.Sprintf("Your heart rate is high (%d bpm). Consider taking a break and practicing deep breathing.",
				s.HeartRate.Current),
		}
	}
	if s.SleepData.Duration < t.LowSleepHours {
		return internal.HealthAssessment{
			HasIssue: true,
			Message: fmt.Sprintf("You only got %s hours of sleep last night. Try to get at least 7 hours of sleep for better health.",
				strconv.FormatFloat(s.SleepData.Duration, 'f', -1, 64)),
		}
	}
	return internal.HealthAssessment{}
}

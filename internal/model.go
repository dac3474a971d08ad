package internal

import "time"

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// TokenRecord is the persisted fitness-provider connection. Empty strings
// stand for absent tokens.
type TokenRecord struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Connected    bool   `json:"connected"`
}

type SleepQuality string

const (
	SleepPoor SleepQuality = "poor"
	SleepFair SleepQuality = "fair"
	SleepGood SleepQuality = "good"
)

var SleepQualities = []SleepQuality{SleepPoor, SleepFair, SleepGood}

type HeartRate struct {
	Current int `json:"current"`
	Resting int `json:"resting"`
	Max     int `json:"max"`
}

type SleepData struct {
	Duration  float64      `json:"duration"`   // hours
	Quality   SleepQuality `json:"quality"`
	DeepSleep float64      `json:"deep_sleep"` // hours
}

// MetricSource says where a snapshot value came from.
type MetricSource string

const (
	SourceProvider MetricSource = "provider"
	SourceFallback MetricSource = "fallback"
)

type Provenance struct {
	Steps    MetricSource `json:"steps"`
	Calories MetricSource `json:"calories"`
}

// FitnessSnapshot is the result of one fetch. It is never mutated after
// construction; the next fetch supersedes it.
type FitnessSnapshot struct {
	Steps          int        `json:"steps"`
	CaloriesBurned float64    `json:"calories_burned"`
	ActiveMinutes  int        `json:"active_minutes"`
	Distance       float64    `json:"distance"` // km
	HeartRate      HeartRate  `json:"heart_rate"`
	SleepData      SleepData  `json:"sleep_data"`
	LastUpdated    time.Time  `json:"last_updated"`
	Provenance     Provenance `json:"provenance"`
}

type HealthAssessment struct {
	HasIssue bool   `json:"has_issue"`
	Message  string `json:"message"`
}

type NotificationType string

const (
	NotificationReminder    NotificationType = "reminder"
	NotificationAlert       NotificationType = "alert"
	NotificationUpdate      NotificationType = "update"
	NotificationAchievement NotificationType = "achievement"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

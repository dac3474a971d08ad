package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/fitness"
	"github.com/Sujal861/Omi-Mentor/internal/health"
)

var ErrNothingToSend = errors.New("service: no alert recipient or message")

// AlertRequest fields are optional; blanks default to the caller's email and
// the current assessment message.
type AlertRequest struct {
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message" validate:"omitempty,max=2000"`
}

type AlertResult struct {
	Sent    bool   `json:"sent"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func ValidateAlertRequest(req *AlertRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	return nil
}

func ResolveAlert(req *AlertRequest, user *internal.User, assessment internal.HealthAssessment) (email, message string, err error) {
	email = strings.TrimSpace(req.Email)
	if email == "" && user != nil {
		email = user.Email
	}
	message = strings.TrimSpace(req.Message)
	if message == "" && assessment.HasIssue {
		message = assessment.Message
	}
	if email == "" || message == "" {
		return "", "", ErrNothingToSend
	}
	return email, message, nil
}

func SendAlert(ctx context.Context, d health.Dispatcher, user *internal.User, req *AlertRequest, snap *internal.FitnessSnapshot) (*AlertResult, error) {
	email, message, err := ResolveAlert(req, user, health.Evaluate(snap))
	if err != nil {
		return nil, err
	}
	return &AlertResult{
		Sent:    d.Send(ctx, email, message),
		Email:   email,
		Message: message,
	}, nil
}

// AutoAlertHook alerts email whenever a new snapshot has an issue.
func AutoAlertHook(d health.Dispatcher, email string, logger internal.Logger) fitness.SnapshotHook {
	return func(ctx context.Context, snap *internal.FitnessSnapshot) {
		a := health.Evaluate(snap)
		if !a.HasIssue {
			return
		}
		if !d.Send(ctx, email, a.Message) {
			logger.Warnf("auto alert to %s not sent", email)
		}
	}
}

package health

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/observability"
)

const alertSubject = "Your Omi Mentor health alert"

type MailgunOptions struct {
	Domain    string
	APIKey    string
	FromEmail string
	FromName  string
	// APIBase overrides the Mailgun endpoint; empty keeps the SDK default.
	APIBase string
}

// MailgunDispatcher emails alerts through the Mailgun API.
type MailgunDispatcher struct {
	client  *mailgun.MailgunImpl
	from    string
	toaster internal.Toaster
	logger  internal.Logger
}

func NewMailgunDispatcher(opts MailgunOptions, toaster internal.Toaster, logger internal.Logger) *MailgunDispatcher {
	client := mailgun.NewMailgun(opts.Domain, opts.APIKey)
	if opts.APIBase != "" {
		client.SetAPIBase(opts.APIBase)
	}
	if toaster == nil {
		toaster = internal.NopToaster{}
	}
	return &MailgunDispatcher{
		client:  client,
		from:    fmt.Sprintf("%s <%s>", opts.FromName, opts.FromEmail),
		toaster: toaster,
		logger:  logger,
	}
}

func (d *MailgunDispatcher) Send(ctx context.Context, email, message string) bool {
	if blank(email, message) {
		observability.RecordAlert(false)
		return false
	}
	msg := d.client.NewMessage(d.from, alertSubject, message, email)

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, id, err := d.client.Send(sendCtx, msg)
	if err != nil {
		d.logger.Errorf("failed to send health alert to %s: %v", email, err)
		d.toaster.Error("Could not send health alert", "The email notification could not be delivered")
		observability.RecordAlert(false)
		return false
	}
	d.logger.Infof("health alert sent to %s (message_id=%s)", email, id)
	d.toaster.Success("Health alert sent", "An email notification has been sent with health recommendations")
	observability.RecordAlert(true)
	return true
}

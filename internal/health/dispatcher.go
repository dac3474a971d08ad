package health

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/observability"
	"golang.org/x/time/rate"
)

// Dispatcher delivers a health alert. Send returns false when nothing was
// sent, including when email or message is empty.
type Dispatcher interface {
	Send(ctx context.Context, email, message string) bool
}

func blank(email, message string) bool {
	return strings.TrimSpace(email) == "" || strings.TrimSpace(message) == ""
}

// StubDispatcher logs the alert instead of delivering it.
type StubDispatcher struct {
	toaster internal.Toaster
	logger  internal.Logger
}

func NewStubDispatcher(toaster internal.Toaster, logger internal.Logger) *StubDispatcher {
	if toaster == nil {
		toaster = internal.NopToaster{}
	}
	return &StubDispatcher{toaster: toaster, logger: logger}
}

func (d *StubDispatcher) Send(ctx context.Context, email, message string) bool {
	if blank(email, message) {
		observability.RecordAlert(false)
		return false
	}
	d.logger.Infof("health alert for %s: %s", email, message)
	d.toaster.Success("Health alert sent", "An email notification has been sent with health recommendations")
	observability.RecordAlert(true)
	return true
}

// RateLimitedDispatcher caps alerts per recipient with a token bucket.
type RateLimitedDispatcher struct {
	next   Dispatcher
	limit  rate.Limit
	burst  int
	logger internal.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimitedDispatcher allows perWindow alerts per recipient every window.
func NewRateLimitedDispatcher(next Dispatcher, perWindow int, window time.Duration, burst int, logger internal.Logger) *RateLimitedDispatcher {
	if perWindow < 1 {
		perWindow = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedDispatcher{
		next:     next,
		limit:    rate.Every(window / time.Duration(perWindow)),
		burst:    burst,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (d *RateLimitedDispatcher) limiter(email string) *rate.Limiter {
	key := strings.ToLower(strings.TrimSpace(email))
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.limiters[key]
	if !ok {
		l = rate.NewLimiter(d.limit, d.burst)
		d.limiters[key] = l
	}
	return l
}

func (d *RateLimitedDispatcher) Send(ctx context.Context, email, message string) bool {
	if blank(email, message) {
		return false
	}
	if !d.limiter(email).Allow() {
		d.logger.Warnf("health alert to %s suppressed by rate limit", email)
		observability.RecordAlert(false)
		return false
	}
	return d.next.Send(ctx, email, message)
}

var (
	_ Dispatcher = (*StubDispatcher)(nil)
	_ Dispatcher = (*RateLimitedDispatcher)(nil)
	_ Dispatcher = (*MailgunDispatcher)(nil)
)

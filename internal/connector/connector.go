package connector

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/observability"
	"github.com/Sujal861/Omi-Mentor/internal/tokenstore"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"
)

// Scopes are the read-only fitness scopes requested at consent.
var Scopes = []string{
	"https://www.googleapis.com/auth/fitness.activity.read",
	"https://www.googleapis.com/auth/fitness.heart_rate.read",
	"https://www.googleapis.com/auth/fitness.sleep.read",
	"https://www.googleapis.com/auth/fitness.body.read",
}

const DefaultTokenInfoURL = "https://www.googleapis.com/oauth2/v1/tokeninfo"

var (
	ErrNoRefreshToken = errors.New("connector: no refresh token stored")
	ErrAuthorization  = errors.New("connector: authorization failed")
	ErrStateMismatch  = errors.New("connector: authorization state mismatch")
)

type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Empty endpoint URLs fall back to Google's.
	AuthURL      string
	TokenURL     string
	TokenInfoURL string
	HTTPClient   *http.Client
}

type ConnectResult struct {
	Connected   bool   `json:"connected"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Connector drives the OAuth2 authorization-code flow against the fitness
// provider and keeps the Token Store in step with it.
type Connector struct {
	oauth        *oauth2.Config
	tokenInfoURL string
	httpClient   *http.Client
	rest         *resty.Client
	store        *tokenstore.Store
	toaster      internal.Toaster
	logger       internal.Logger

	refreshGroup singleflight.Group

	mu    sync.Mutex
	state State
}

func New(opts Options, store *tokenstore.Store, toaster internal.Toaster, logger internal.Logger) *Connector {
	endpoint := google.Endpoint
	if opts.AuthURL != "" {
		endpoint.AuthURL = opts.AuthURL
	}
	if opts.TokenURL != "" {
		endpoint.TokenURL = opts.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	tokenInfoURL := opts.TokenInfoURL
	if tokenInfoURL == "" {
		tokenInfoURL = DefaultTokenInfoURL
	}

	rest := resty.New()
	if opts.HTTPClient != nil {
		rest = resty.NewWithClient(opts.HTTPClient)
	}
	if toaster == nil {
		toaster = internal.NopToaster{}
	}

	c := &Connector{
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		tokenInfoURL: tokenInfoURL,
		httpClient:   opts.HTTPClient,
		rest:         rest,
		store:        store,
		toaster:      toaster,
		logger:       logger,
		state:        Disconnected,
	}
	if store.IsConnected(context.Background()) {
		c.state = Connected
	}
	return c
}

func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RedirectURL is where the provider sends the user after consent.
func (c *Connector) RedirectURL() string {
	return c.oauth.RedirectURL
}

func (c *Connector) IsConnected(ctx context.Context) bool {
	return c.store.IsConnected(ctx)
}

func (c *Connector) transition(to State) error {
	_, err := c.transitionFrom(to)
	return err
}

// transitionFrom moves to `to` and returns the state it left.
func (c *Connector) transitionFrom(to State) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.state
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	c.logger.Debugf("connector: %s -> %s", from, to)
	c.state = to
	return from, nil
}

func (c *Connector) forceState(to State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = to
}

func (c *Connector) clientContext(ctx context.Context) context.Context {
	if c.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// InitiateConnect reports Connected when the stored access token still
// verifies. Otherwise it returns the consent URL the caller must send the
// user to; the flow resumes in HandleRedirect.
func (c *Connector) InitiateConnect(ctx context.Context) (ConnectResult, error) {
	if c.Verify(ctx) {
		return ConnectResult{Connected: true}, nil
	}
	if err := c.transition(Redirecting); err != nil {
		return ConnectResult{}, err
	}
	state := uuid.NewString()
	if err := c.store.SetPendingState(ctx, state); err != nil {
		c.forceState(Disconnected)
		return ConnectResult{}, fmt.Errorf("connector: persist state: %w", err)
	}
	authURL := c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	if err := c.transition(AwaitingCode); err != nil {
		return ConnectResult{}, err
	}
	c.logger.Infof("connector: redirecting to provider consent")
	return ConnectResult{RedirectURL: authURL}, nil
}

// HandleRedirect completes the flow when u carries an authorization code.
// The returned URL has the code and state removed so reloading it does not
// exchange the code a second time. The state must match the one issued by
// the last InitiateConnect.
func (c *Connector) HandleRedirect(ctx context.Context, u *url.URL) (bool, *url.URL, error) {
	q := u.Query()
	code := q.Get("code")
	if code == "" {
		return false, u, nil
	}
	state := q.Get("state")
	q.Del("code")
	q.Del("state")
	cleaned := *u
	cleaned.RawQuery = q.Encode()

	expected := c.store.PendingState(ctx)
	if expected == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expected)) != 1 {
		c.logger.Warnf("connector: callback state does not match a pending consent request")
		c.toaster.Error("Google Fit authorization failed", "Start the connection again from Omi Mentor")
		return true, &cleaned, fmt.Errorf("%w: %w", ErrAuthorization, ErrStateMismatch)
	}
	if err := c.store.ClearPendingState(ctx); err != nil {
		c.logger.Warnf("connector: clear pending state: %v", err)
	}

	if err := c.transition(Exchanging); err != nil {
		c.toaster.Error("Google Fit authorization failed", "Another Google Fit operation is in progress, try again")
		return true, &cleaned, err
	}

	tok, err := c.oauth.Exchange(c.clientContext(ctx), code)
	if err != nil {
		c.forceState(Disconnected)
		c.logger.Errorf("connector: code exchange failed: %v", err)
		c.toaster.Error("Google Fit authorization failed", "Could not complete the connection to Google Fit")
		return true, &cleaned, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}

	if err := c.store.SetConnected(ctx, tok.AccessToken, tok.RefreshToken); err != nil {
		c.forceState(Disconnected)
		c.logger.Errorf("connector: persist tokens: %v", err)
		c.toaster.Error("Google Fit authorization failed", "Could not save the Google Fit connection")
		return true, &cleaned, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}
	if tok.RefreshToken == "" {
		c.logger.Warnf("connector: provider granted no refresh token")
	}
	if err := c.transition(Connected); err != nil {
		return true, &cleaned, err
	}
	c.toaster.Success("Connected to Google Fit", "Your fitness data will now sync automatically")
	return true, &cleaned, nil
}

// Refresh trades the stored refresh token for a new access token. The
// refresh token itself is kept. Concurrent callers share one request.
func (c *Connector) Refresh(ctx context.Context) error {
	// The shared flight must not die with whichever caller started it.
	flightCtx := context.WithoutCancel(ctx)
	_, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, c.refresh(flightCtx)
	})
	return err
}

func (c *Connector) refresh(ctx context.Context) error {
	rec := c.store.Get(ctx)
	if rec.RefreshToken == "" {
		return ErrNoRefreshToken
	}
	prev, err := c.transitionFrom(Refreshing)
	if err != nil {
		return err
	}

	src := c.oauth.TokenSource(c.clientContext(ctx), &oauth2.Token{RefreshToken: rec.RefreshToken})
	tok, err := src.Token()
	observability.RecordTokenRefresh(err)
	if err != nil {
		c.forceState(prev)
		c.logger.Warnf("connector: token refresh failed: %v", err)
		return fmt.Errorf("connector: refresh: %w", err)
	}
	if err := c.store.SetAccessToken(ctx, tok.AccessToken); err != nil {
		c.forceState(prev)
		return fmt.Errorf("connector: persist refreshed token: %w", err)
	}
	c.forceState(Connected)
	c.logger.Infof("connector: access token refreshed")
	return nil
}

type tokenInfo struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ExpiresIn        int    `json:"expires_in"`
}

// Verify checks the stored access token against the token-info endpoint,
// falling back to a refresh when the provider rejects it.
func (c *Connector) Verify(ctx context.Context) bool {
	rec := c.store.Get(ctx)
	if rec.AccessToken == "" {
		return false
	}
	if err := c.transition(Verifying); err != nil {
		c.logger.Warnf("connector: verify skipped: %v", err)
		return false
	}
	if c.tokenValid(ctx, rec.AccessToken) {
		c.forceState(Connected)
		return true
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.Infof("connector: stored token unusable: %v", err)
		c.forceState(Disconnected)
		return false
	}
	return true
}

func (c *Connector) tokenValid(ctx context.Context, accessToken string) bool {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		Get(c.tokenInfoURL)
	if err != nil {
		c.logger.Warnf("connector: token info request failed: %v", err)
		return false
	}
	var info tokenInfo
	if err := json.Unmarshal(resp.Body(), &info); err != nil {
		c.logger.Warnf("connector: token info response unreadable (status %d): %v", resp.StatusCode(), err)
		return false
	}
	if info.Error != "" {
		c.logger.Debugf("connector: token rejected: %s", info.Error)
		return false
	}
	return true
}

// Disconnect forgets every stored token regardless of the current state.
func (c *Connector) Disconnect(ctx context.Context) error {
	err := c.store.Clear(ctx)
	c.forceState(Disconnected)
	c.toaster.Info("Disconnected from Google Fit", "")
	if err != nil {
		c.logger.Errorf("connector: clear tokens: %v", err)
	}
	return err
}

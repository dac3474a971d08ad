package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/Sujal861/Omi-Mentor/internal"
)

// RemoteAuthProvider validates bearer tokens against the hosted auth service.
type RemoteAuthProvider struct {
	AuthServiceURL string
	client         *resty.Client
	logger         internal.Logger
}

func (a *RemoteAuthProvider) ValidateTokenLocal(token string) (*internal.User, error) {
	return nil, errors.New("not implemented in RemoteAuthProvider")
}

func (a *RemoteAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	var user internal.User
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"token": token}).
		SetResult(&user).
		Post(a.AuthServiceURL)
	if err != nil {
		a.logger.Errorf("failed to call auth service: %v", err)
		return nil, err
	}
	if resp.IsError() {
		a.logger.Errorf("auth service returned %d", resp.StatusCode())
		return nil, fmt.Errorf("auth service returned %d", resp.StatusCode())
	}
	if user.ID == "" {
		return nil, errors.New("auth service returned no user")
	}
	user.Token = token
	return &user, nil
}

func NewRemoteAuthProvider(url string, logger internal.Logger) *RemoteAuthProvider {
	return &RemoteAuthProvider{
		AuthServiceURL: url,
		client:         resty.New().SetTimeout(5 * time.Second),
		logger:         logger,
	}
}

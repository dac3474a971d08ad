package auth

import (
	"context"
	"errors"

	"github.com/Sujal861/Omi-Mentor/internal"
)

// LocalAuthProvider accepts a single static bearer token and maps it to the
// configured owner.
type LocalAuthProvider struct {
	Token  string
	owner  internal.User
	logger internal.Logger
}

func (a *LocalAuthProvider) ValidateTokenLocal(token string) (*internal.User, error) {
	if token != "" && token == a.Token {
		u := a.owner
		u.Token = a.Token
		return &u, nil
	}
	a.logger.Warnf("invalid token presented")
	return nil, errors.New("invalid token")
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	a.logger.Warnf("ValidateTokenRemote not implemented in LocalAuthProvider")
	return nil, errors.New("not implemented in LocalAuthProvider")
}

func NewLocalAuthProvider(token string, owner internal.User, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{Token: token, owner: owner, logger: logger}
}

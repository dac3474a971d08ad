package auth

import (
	"context"

	"github.com/Sujal861/Omi-Mentor/internal"
)

type Provider interface {
	ValidateTokenLocal(token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}

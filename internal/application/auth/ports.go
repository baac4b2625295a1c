package auth

import (
	"context"
	"time"
)

// TokenBlacklist guarda los tokens revocados por logout hasta su expiración.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

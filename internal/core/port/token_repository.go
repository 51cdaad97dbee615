package port

import (
	"context"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
)

// TokenRepository abstracts persistence for refresh tokens.
type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, token domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string) error
	// RevokeRefreshTokensForAccount revokes every outstanding token for the
	// account in a single statement and returns how many were affected.
	RevokeRefreshTokensForAccount(ctx context.Context, accountID string) (int, error)
}

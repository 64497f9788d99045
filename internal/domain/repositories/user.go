package repositories

import (
	"context"

	"leavechat/internal/domain/models"
)

// UserRepository looks up stored accounts.
type UserRepository interface {
	// GetByUsername returns the account, or domain.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Create persists a new account. Used by the seed command.
	Create(ctx context.Context, user *models.User) error
}

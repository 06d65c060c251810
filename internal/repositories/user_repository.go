package repositories

import (
	"context"

	"inventory/internal/models"
)

// UserNotFoundMessage is the message of the error returned when a user
// lookup has no match.
const UserNotFoundMessage = "User not found"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

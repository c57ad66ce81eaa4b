package storage

import (
	"context"

	"github.com/terra-clan/challenge-hub/internal/models"
)

// Repository defines the interface for user and challenge persistence.
// Get methods return (nil, nil) when the record does not exist.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	ListUsersByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)

	// Challenges
	CreateChallenge(ctx context.Context, c *models.Challenge) error
	GetChallenge(ctx context.Context, id string) (*models.Challenge, error)
	UpdateChallenge(ctx context.Context, c *models.Challenge) error
	ListChallenges(ctx context.Context, filters models.ListFilters) ([]*models.Challenge, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}

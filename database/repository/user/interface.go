package userRepo

import "github.com/velasquezhn3/vj-sub000/models"

// UserRepository defines methods for user directory access.
type UserRepository interface {
	// GetByPhone retrieves a user by phone identity, or nil when absent.
	GetByPhone(phone string) (*models.User, error)
	// UpsertByPhone creates or updates the user record for a phone identity,
	// refreshing the display name when one is provided.
	UpsertByPhone(phone, displayName string) (*models.User, error)
}

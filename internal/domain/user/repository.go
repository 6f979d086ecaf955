package user

import (
	"context"
)

// Repository defines the operations for retrieving User entities.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

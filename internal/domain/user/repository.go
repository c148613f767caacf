package user

import "context"

type Repository interface {
	// GetByID returns (nil, nil) when the user does not exist.
	GetByID(ctx context.Context, id uint) (*User, error)
}

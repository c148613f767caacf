package servicerequest

import "context"

type ListFilter struct {
	Status *Status
	Limit  int
}

// Repository lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, sr *ServiceRequest) error
	GetByID(ctx context.Context, id uint) (*ServiceRequest, error)
	// ListByUser returns the user's requests newest first.
	ListByUser(ctx context.Context, userID uint) ([]*ServiceRequest, error)
	// List returns requests across all users newest first.
	List(ctx context.Context, filter ListFilter) ([]*ServiceRequest, error)
	ListIDs(ctx context.Context) ([]uint, error)

	UpdateStatus(ctx context.Context, id uint, status Status) error
	MarkDiscordNotified(ctx context.Context, id uint) error
	ResetStatus(ctx context.Context, ids []uint, status Status) error

	DeleteByIDs(ctx context.Context, ids []uint) error
}

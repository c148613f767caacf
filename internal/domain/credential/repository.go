package credential

import (
	"context"
	"time"
)

// Repository lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, c *Credential) error
	GetByID(ctx context.Context, id uint) (*Credential, error)
	ListByUser(ctx context.Context, userID uint) ([]*Credential, error)
	ListByServiceRequest(ctx context.Context, serviceRequestID uint) ([]*Credential, error)
	TouchAccessed(ctx context.Context, id uint, at time.Time) error
	// DeleteOwned removes the credential only when userID owns it and reports
	// whether a row was removed.
	DeleteOwned(ctx context.Context, id, userID uint) (bool, error)
	DeleteByServiceRequestIDs(ctx context.Context, serviceRequestIDs []uint) error
}

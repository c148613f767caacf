package servicerequest

import "github.com/fixmysite/portal/internal/shared/errors"

var (
	ErrServiceRequestNotFound = errors.NewNotFoundError("Service request not found.")
	ErrInvalidStatus          = errors.NewValidationError("Invalid service request status.")
)

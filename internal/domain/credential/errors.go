package credential

import "github.com/fixmysite/portal/internal/shared/errors"

var (
	ErrCredentialNotFound = errors.NewNotFoundError("Credential not found.")
	ErrInvalidPassword    = errors.NewUnauthorizedError("Invalid password.")
	ErrMissingSecret      = errors.NewValidationError("Provide either username+password or label+text")
)

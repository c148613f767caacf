package ticket

import "github.com/fixmysite/portal/internal/shared/errors"

var (
	ErrTicketNotFound = errors.NewNotFoundError("Ticket not found.")
	ErrTicketClosed   = errors.NewConflictError("Cannot send messages to a closed ticket.")
	ErrAlreadyDeleted = errors.NewBadRequestError("Ticket is already deleted.")
	// ErrNotOwner answers like a missing ticket so existence is not revealed.
	ErrNotOwner       = errors.NewNotFoundError("Ticket not found or access denied.")
	ErrInvalidStatus  = errors.NewValidationError("Invalid ticket status.")
	ErrInvalidMessage = errors.NewValidationError("Invalid message.")
)

package dto

import (
	"time"

	"github.com/fixmysite/portal/internal/domain/credential"
)

// CreateCredentialRequest accepts either a username/password pair or a free
// text secret with a label.
type CreateCredentialRequest struct {
	ServiceRequestID uint   `json:"service_request_id" validate:"required"`
	Username         string `json:"username" validate:"omitempty,max=255"`
	Password         string `json:"password" validate:"omitempty,max=4096"`
	Label            string `json:"label" validate:"omitempty,max=255"`
	Text             string `json:"text" validate:"omitempty,max=4096"`
}

type RevealCredentialRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type RevealCredentialResponse struct {
	Password string `json:"password"`
}

type CredentialDTO struct {
	ID               uint      `json:"id"`
	ServiceRequestID uint      `json:"service_request_id"`
	Label            string    `json:"label"`
	Username         string    `json:"username"`
	CreatedAt        time.Time `json:"created_at"`
}

// RevealedCredential is a decrypted secret for display in the support channel.
type RevealedCredential struct {
	ID     uint
	Name   string
	Secret string
}

func ToCredentialDTO(c *credential.Credential) CredentialDTO {
	return CredentialDTO{
		ID:               c.ID(),
		ServiceRequestID: c.ServiceRequestID(),
		Label:            c.Label(),
		Username:         c.Username(),
		CreatedAt:        c.CreatedAt(),
	}
}

func ToCredentialDTOs(list []*credential.Credential) []CredentialDTO {
	out := make([]CredentialDTO, 0, len(list))
	for _, c := range list {
		out = append(out, ToCredentialDTO(c))
	}
	return out
}

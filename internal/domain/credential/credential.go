package credential

import (
	"fmt"
	"strings"
	"time"

	"github.com/fixmysite/portal/internal/shared/biztime"
)

// Credential is a client secret stored encrypted against a service request.
type Credential struct {
	id               uint
	serviceRequestID uint
	userID           uint
	label            string
	username         string
	ciphertext       []byte
	iv               []byte
	lastAccessedAt   *time.Time
	createdAt        time.Time
}

func NewCredential(serviceRequestID, userID uint, label, username string, ciphertext, iv []byte) (*Credential, error) {
	if serviceRequestID == 0 {
		return nil, fmt.Errorf("service request ID is required")
	}
	if len(iv) == 0 {
		return nil, fmt.Errorf("iv is required")
	}
	if strings.TrimSpace(label) == "" && strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("label or username is required")
	}

	return &Credential{
		serviceRequestID: serviceRequestID,
		userID:           userID,
		label:            strings.TrimSpace(label),
		username:         strings.TrimSpace(username),
		ciphertext:       ciphertext,
		iv:               iv,
		createdAt:        biztime.NowUTC(),
	}, nil
}

func ReconstructCredential(
	id uint,
	serviceRequestID uint,
	userID uint,
	label string,
	username string,
	ciphertext []byte,
	iv []byte,
	lastAccessedAt *time.Time,
	createdAt time.Time,
) (*Credential, error) {
	if id == 0 {
		return nil, fmt.Errorf("credential ID cannot be zero")
	}
	return &Credential{
		id:               id,
		serviceRequestID: serviceRequestID,
		userID:           userID,
		label:            label,
		username:         username,
		ciphertext:       ciphertext,
		iv:               iv,
		lastAccessedAt:   lastAccessedAt,
		createdAt:        createdAt,
	}, nil
}

func (c *Credential) ID() uint                   { return c.id }
func (c *Credential) ServiceRequestID() uint     { return c.serviceRequestID }
func (c *Credential) UserID() uint               { return c.userID }
func (c *Credential) Label() string              { return c.label }
func (c *Credential) Username() string           { return c.username }
func (c *Credential) Ciphertext() []byte         { return c.ciphertext }
func (c *Credential) IV() []byte                 { return c.iv }
func (c *Credential) LastAccessedAt() *time.Time { return c.lastAccessedAt }
func (c *Credential) CreatedAt() time.Time       { return c.createdAt }

// DisplayName prefers the label, then the username.
func (c *Credential) DisplayName() string {
	switch {
	case c.label != "":
		return c.label
	case c.username != "":
		return c.username
	default:
		return "Credential"
	}
}

func (c *Credential) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("credential ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("credential ID cannot be zero")
	}
	c.id = id
	return nil
}

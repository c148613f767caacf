package models

import (
	"time"

	"github.com/fixmysite/portal/internal/shared/constants"
)

// CredentialModel stores AES-GCM ciphertext with the tag appended.
type CredentialModel struct {
	ID               uint   `gorm:"primarykey"`
	ServiceRequestID uint   `gorm:"not null;index"`
	UserID           uint   `gorm:"not null;index"`
	Label            string `gorm:"size:255"`
	Username         string `gorm:"size:255"`
	PasswordEnc      []byte `gorm:"not null"`
	IV               []byte `gorm:"column:iv;size:12;not null"`
	LastAccessedAt   *time.Time
	CreatedAt        time.Time
}

func (CredentialModel) TableName() string {
	return constants.TableCredentials
}

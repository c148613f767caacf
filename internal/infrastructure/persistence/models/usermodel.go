package models

import (
	"time"

	"github.com/fixmysite/portal/internal/shared/constants"
)

// UserModel is owned by the account service; the portal reads it.
type UserModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"not null;size:255"`
	Email       string `gorm:"uniqueIndex;not null;size:255"`
	Password    string `gorm:"not null;size:255"`
	PhoneNumber string `gorm:"size:50"`
	WebsiteURL  string `gorm:"size:500"`
	CreatedAt   time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}

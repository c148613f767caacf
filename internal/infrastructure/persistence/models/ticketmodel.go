package models

import (
	"time"

	"github.com/fixmysite/portal/internal/shared/constants"
)

type TicketModel struct {
	ID                      uint    `gorm:"primarykey"`
	UserID                  uint    `gorm:"not null;index"`
	ServiceRequestID        uint    `gorm:"not null;index"`
	DiscordChannelID        *string `gorm:"size:64;index"`
	Status                  string  `gorm:"size:20;not null;default:open"`
	Deleted                 bool    `gorm:"not null;default:false;index"`
	DeletedAt               *time.Time
	ClientLastReadMessageID uint `gorm:"not null;default:0"`
	NotifiedUnreadMessageID *uint
	CreatedAt               time.Time

	// No foreign key constraints or associations.
	// Relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

// TicketMessageModel rows are ordered by ID, never by CreatedAt.
type TicketMessageModel struct {
	ID         uint   `gorm:"primarykey"`
	TicketID   uint   `gorm:"not null;index"`
	UserID     *uint  `gorm:"index"`
	AuthorName string `gorm:"size:255;not null"`
	Message    string `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

func (TicketMessageModel) TableName() string {
	return constants.TableTicketMessages
}

package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fixmysite/portal/internal/shared/constants"
)

// FeatureModel is one entry of the additional_features JSON column.
type FeatureModel struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ServiceRequestModel struct {
	ID                 uint                              `gorm:"primarykey"`
	UserID             uint                              `gorm:"not null;index"`
	ClientName         string                            `gorm:"size:255"`
	ClientEmail        string                            `gorm:"size:255"`
	WebsiteURL         string                            `gorm:"size:500"`
	PlatformType       string                            `gorm:"size:100"`
	ServiceType        string                            `gorm:"size:100;not null"`
	ProblemDescription string                            `gorm:"type:text;not null"`
	UrgencyLevel       string                            `gorm:"size:50"`
	BudgetRange        string                            `gorm:"size:100"`
	EstimatedQuote     *float64                          `gorm:"type:decimal(10,2)"`
	AdditionalFeatures datatypes.JSONSlice[FeatureModel] `gorm:"type:json"`
	Status             string                            `gorm:"size:20;not null;default:new;index"`
	DiscordNotified    bool                              `gorm:"not null;default:false"`
	CreatedAt          time.Time                         `gorm:"index"`

	// No foreign key constraints or associations.
	// Relationships are managed by application business logic.
}

func (ServiceRequestModel) TableName() string {
	return constants.TableServiceRequests
}

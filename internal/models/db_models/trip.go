package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Trip struct {
	BaseModel
	OwnerID        uuid.UUID `gorm:"type:uuid;index"`
	Title          string
	Destination    string
	StartDate      *time.Time `gorm:"type:date"`
	EndDate        *time.Time `gorm:"type:date"`
	PartySize      int
	BudgetCurrency string `gorm:"size:3"`
	BudgetTotal    *float64
	Notes          *string
	// Metadata holds keys owned by other features next to travel_window
	// and source.
	Metadata datatypes.JSONMap `gorm:"type:jsonb;default:'{}'"`

	Days []TripDay `gorm:"foreignKey:TripID"`
}

type TripDay struct {
	BaseModel
	TripID   uuid.UUID `gorm:"type:uuid;index"`
	DayIndex int
	Date     *time.Time `gorm:"type:date"`
	Summary  *string

	Activities []TripActivity `gorm:"foreignKey:TripDayID"`
}

type TripActivity struct {
	BaseModel
	TripID        uuid.UUID `gorm:"type:uuid;index"`
	TripDayID     uuid.UUID `gorm:"type:uuid;index"`
	DayIndex      int
	OrderIndex    int
	Title         string
	Location      *string
	StartTime     *time.Time
	EndTime       *time.Time
	Category      string
	EstimatedCost *float64
	Notes         *string
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;default:'{}'"`
}

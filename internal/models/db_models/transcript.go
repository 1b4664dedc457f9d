package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ItineraryTranscript is the verbatim model output of one planning request.
type ItineraryTranscript struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TripID     *uuid.UUID `gorm:"type:uuid"`
	UserID     uuid.UUID  `gorm:"type:uuid"`
	Prompt     string
	Content    string
	Raw        datatypes.JSON `gorm:"type:jsonb"`
	ParseError *string
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (t *ItineraryTranscript) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaitlistEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"index;not null" json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func (w *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

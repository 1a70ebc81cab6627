package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BrandProfile holds the knowledge-base fields a user maintains; they are
// concatenated into the brand-context prompt block.
type BrandProfile struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID       string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Biography    string    `json:"biography"`
	Audience     string    `json:"audience"`
	ValuesTone   string    `json:"values_tone"`
	NicheTopics  string    `json:"niche_topics"`
	KnowledgeRaw string    `json:"knowledge_raw"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (b *BrandProfile) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (BrandProfile) TableName() string {
	return "brand_profiles"
}

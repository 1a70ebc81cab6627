package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AICredit is the per-user prepaid credit ledger. used_credits never exceeds
// total_credits; the credit service enforces that with a conditional update.
type AICredit struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID       string    `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalCredits int       `gorm:"not null" json:"total_credits"`
	UsedCredits  int       `gorm:"not null;default:0" json:"used_credits"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *AICredit) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (AICredit) TableName() string {
	return "ai_credits"
}

func (c *AICredit) Available() int {
	return c.TotalCredits - c.UsedCredits
}

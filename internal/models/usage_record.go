package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageLog is the append-only record of one AI-costing action. Rows are never
// updated or deleted.
type UsageLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID       string    `gorm:"index;not null" json:"user_id"`
	Action       string    `gorm:"index;not null" json:"action"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	TokensUsed   int       `json:"tokens_used"`
	CostEUR      float64   `json:"cost_eur"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (u *UsageLog) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (UsageLog) TableName() string {
	return "usage_logs"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentPlan is the header row of a generated monthly plan.
type ContentPlan struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Frequency string    `json:"frequency"`
	Platforms []string  `gorm:"serializer:json" json:"platforms"`
	Focus     string    `json:"focus"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *ContentPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (ContentPlan) TableName() string {
	return "content_plans"
}

// ContentSlot is one scheduled idea inside a plan.
type ContentSlot struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PlanID      uuid.UUID `gorm:"type:uuid;index;not null" json:"plan_id"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	DayNumber   int       `json:"day_number"`
	Platform    string    `json:"platform"`
	ContentType string    `json:"content_type"`
	IdeaTitle   string    `json:"idea_title"`
	Goal        string    `json:"goal"`
	HasScript   bool      `gorm:"default:false" json:"has_script"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *ContentSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (ContentSlot) TableName() string {
	return "content_slots"
}

// Script is one persisted generated script.
type Script struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID     string         `gorm:"index;not null" json:"user_id"`
	Topic      string         `json:"topic"`
	Platform   string         `json:"platform"`
	Tone       string         `json:"tone"`
	Hook       string         `json:"gancho"`
	Body       []string       `gorm:"serializer:json" json:"desarrollo"`
	CTA        string         `json:"cta"`
	Insights   ScriptInsights `gorm:"serializer:json" json:"insights"`
	CreatedAt  time.Time      `json:"created_at"`
}

type ScriptInsights struct {
	Virality     string `json:"viralidad"`
	RetentionTip string `json:"retencion_tip"`
	VisualCue    string `json:"visual_cue"`
}

func (s *Script) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Script) TableName() string {
	return "scripts"
}

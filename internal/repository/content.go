package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"gorm.io/gorm"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) CreatePlan(ctx context.Context, plan *models.ContentPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *ContentRepository) CreateSlots(ctx context.Context, slots []*models.ContentSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

func (r *ContentRepository) ListPlans(ctx context.Context, userID string) ([]models.ContentPlan, error) {
	var plans []models.ContentPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error

	return plans, err
}

func (r *ContentRepository) ListSlotsByPlan(ctx context.Context, planID uuid.UUID) ([]models.ContentSlot, error) {
	var slots []models.ContentSlot
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("day_number ASC").
		Find(&slots).Error

	return slots, err
}

func (r *ContentRepository) CreateScripts(ctx context.Context, scripts []*models.Script) error {
	if len(scripts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&scripts).Error
}

func (r *ContentRepository) ListScripts(ctx context.Context, userID string, limit, offset int) ([]models.Script, error) {
	var scripts []models.Script
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&scripts).Error

	return scripts, err
}

func (r *ContentRepository) MarkSlotScripted(ctx context.Context, slotID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ContentSlot{}).
		Where("id = ?", slotID).
		Update("has_script", true).Error
}

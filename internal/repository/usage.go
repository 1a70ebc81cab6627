package repository

import (
	"context"
	"time"

	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"gorm.io/gorm"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Create appends one usage row. Rows are immutable after insertion.
func (r *UsageRepository) Create(ctx context.Context, log *models.UsageLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *UsageRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.UsageLog, error) {
	var logs []models.UsageLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error

	return logs, err
}

func (r *UsageRepository) CountByUser(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UsageLog{}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, from, to).
		Count(&count).Error

	return count, err
}

type ActionTotals struct {
	Action       string  `json:"action"`
	Count        int64   `json:"count"`
	TokensUsed   int64   `json:"tokens_used"`
	TotalCostEUR float64 `json:"total_cost_eur"`
}

// TotalsByAction aggregates a user's usage grouped by action kind.
func (r *UsageRepository) TotalsByAction(ctx context.Context, userID string, from, to time.Time) ([]ActionTotals, error) {
	var totals []ActionTotals
	err := r.db.WithContext(ctx).
		Model(&models.UsageLog{}).
		Select("action, COUNT(*) as count, COALESCE(SUM(tokens_used), 0) as tokens_used, COALESCE(SUM(cost_eur), 0) as total_cost_eur").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, from, to).
		Group("action").
		Order("count DESC").
		Scan(&totals).Error

	return totals, err
}

package repository

import (
	"context"

	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BrandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) FindByUserID(ctx context.Context, userID string) (*models.BrandProfile, error) {
	var profile models.BrandProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &profile, err
}

// Upsert writes the single brand profile row a user owns.
func (r *BrandRepository) Upsert(ctx context.Context, profile *models.BrandProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"biography", "audience", "values_tone", "niche_topics", "knowledge_raw", "updated_at",
			}),
		}).
		Create(profile).Error
}

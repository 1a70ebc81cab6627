package repository

import (
	"context"

	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"gorm.io/gorm"
)

type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// GetOrCreate fetches the user's ledger row, initializing it with the default
// allotment exactly once. The unique index on user_id makes concurrent first
// touches converge on one row.
func (r *CreditRepository) GetOrCreate(ctx context.Context, userID string, defaultTotal int) (*models.AICredit, error) {
	var credit models.AICredit
	err := r.db.WithContext(ctx).
		Where(models.AICredit{UserID: userID}).
		Attrs(models.AICredit{TotalCredits: defaultTotal, UsedCredits: 0}).
		FirstOrCreate(&credit).Error

	if err != nil {
		return nil, err
	}

	return &credit, nil
}

func (r *CreditRepository) FindByUserID(ctx context.Context, userID string) (*models.AICredit, error) {
	var credit models.AICredit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&credit).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &credit, err
}

// TryReserve atomically increments used_credits by cost only while the ledger
// stays within budget. Returns false when the balance is insufficient.
func (r *CreditRepository) TryReserve(ctx context.Context, userID string, cost int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AICredit{}).
		Where("user_id = ? AND used_credits + ? <= total_credits", userID, cost).
		Update("used_credits", gorm.Expr("used_credits + ?", cost))

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// Release gives reserved credits back after a failed costed call, floored at
// zero.
func (r *CreditRepository) Release(ctx context.Context, userID string, cost int) error {
	return r.db.WithContext(ctx).
		Model(&models.AICredit{}).
		Where("user_id = ?", userID).
		Update("used_credits", gorm.Expr("CASE WHEN used_credits >= ? THEN used_credits - ? ELSE 0 END", cost, cost)).Error
}

// Grant raises the total allotment, used when a user buys more credits.
func (r *CreditRepository) Grant(ctx context.Context, userID string, amount int) error {
	return r.db.WithContext(ctx).
		Model(&models.AICredit{}).
		Where("user_id = ?", userID).
		Update("total_credits", gorm.Expr("total_credits + ?", amount)).Error
}

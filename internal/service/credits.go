package service

import (
	"context"
	"fmt"

	"github.com/oficialwritiai-cmd/WritiIA/internal/apperr"
	"github.com/oficialwritiai-cmd/WritiIA/internal/config"
	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
	"github.com/rs/zerolog"
)

// CreditService is the prepaid-budget gate in front of every AI-costing
// operation. Reservation happens before the costed call through one
// conditional update, so two concurrent requests can never push the ledger
// over budget.
type CreditService struct {
	repo   *repository.CreditRepository
	cfg    config.CreditsConfig
	logger zerolog.Logger
}

func NewCreditService(repo *repository.CreditRepository, cfg config.CreditsConfig, logger zerolog.Logger) *CreditService {
	return &CreditService{
		repo:   repo,
		cfg:    cfg,
		logger: logger.With().Str("component", "credits").Logger(),
	}
}

// Reserve takes cost credits from the user's balance before the costed call
// runs. A first-time user gets the default allotment, so any cost within it
// succeeds on their very first action.
func (s *CreditService) Reserve(ctx context.Context, userID string, cost int) error {
	if cost <= 0 {
		return fmt.Errorf("invalid credit cost: %d", cost)
	}

	if _, err := s.repo.GetOrCreate(ctx, userID, s.cfg.DefaultAllotment); err != nil {
		return fmt.Errorf("failed to load credit ledger: %w", err)
	}

	reserved, err := s.repo.TryReserve(ctx, userID, cost)
	if err != nil {
		return fmt.Errorf("failed to reserve credits: %w", err)
	}
	if !reserved {
		return apperr.ErrInsufficientCredits
	}

	return nil
}

// Release returns reserved credits after the costed call failed. Best-effort:
// a failed release undercounts usage, never overcounts.
func (s *CreditService) Release(ctx context.Context, userID string, cost int) {
	if err := s.repo.Release(ctx, userID, cost); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Int("cost", cost).
			Msg("failed to release reserved credits")
	}
}

// Balance returns the user's ledger, initializing it on first touch.
func (s *CreditService) Balance(ctx context.Context, userID string) (*models.AICredit, error) {
	return s.repo.GetOrCreate(ctx, userID, s.cfg.DefaultAllotment)
}

// Grant adds purchased credits to the user's allotment.
func (s *CreditService) Grant(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("invalid grant amount: %d", amount)
	}

	if _, err := s.repo.GetOrCreate(ctx, userID, s.cfg.DefaultAllotment); err != nil {
		return err
	}

	return s.repo.Grant(ctx, userID, amount)
}

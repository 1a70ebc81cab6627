package service

import (
	"context"
	"time"

	"github.com/oficialwritiai-cmd/WritiIA/internal/config"
	"github.com/oficialwritiai-cmd/WritiIA/internal/llm"
	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
	"github.com/rs/zerolog"
)

// UsageService writes the append-only usage log and serves the stats page
// aggregations.
type UsageService struct {
	repo   *repository.UsageRepository
	cfg    config.AnthropicConfig
	logger zerolog.Logger
}

func NewUsageService(repo *repository.UsageRepository, cfg config.AnthropicConfig, logger zerolog.Logger) *UsageService {
	return &UsageService{
		repo:   repo,
		cfg:    cfg,
		logger: logger.With().Str("component", "usage").Logger(),
	}
}

// EstimateCostEUR prices one exchange from the configured per-million-token
// rates, with the same 5% currency haircut the billing sheet applies.
func (s *UsageService) EstimateCostEUR(usage llm.Usage) float64 {
	inCost := float64(usage.InputTokens) * s.cfg.InputCostEUR / 1_000_000
	outCost := float64(usage.OutputTokens) * s.cfg.OutputCostEUR / 1_000_000
	return (inCost + outCost) * 0.95
}

// Record appends one usage row after a successful generation. Best-effort:
// bookkeeping failures are logged and swallowed so the content the user
// already received is never discarded over them.
func (s *UsageService) Record(ctx context.Context, userID, action string, usage llm.Usage) {
	entry := &models.UsageLog{
		UserID:       userID,
		Action:       action,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		TokensUsed:   usage.Total(),
		CostEUR:      s.EstimateCostEUR(usage),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("action", action).
			Msg("failed to write usage log")
	}
}

type UsageSummary struct {
	TotalActions int64                     `json:"total_actions"`
	TotalTokens  int64                     `json:"total_tokens"`
	TotalCostEUR float64                   `json:"total_cost_eur"`
	ByAction     []repository.ActionTotals `json:"by_action"`
}

// Summary aggregates a user's usage over a time range for the stats page.
func (s *UsageService) Summary(ctx context.Context, userID string, from, to time.Time) (*UsageSummary, error) {
	totals, err := s.repo.TotalsByAction(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &UsageSummary{ByAction: totals}
	for _, t := range totals {
		summary.TotalActions += t.Count
		summary.TotalTokens += t.TokensUsed
		summary.TotalCostEUR += t.TotalCostEUR
	}

	return summary, nil
}

// Recent returns a user's latest usage rows.
func (s *UsageService) Recent(ctx context.Context, userID string, limit int) ([]models.UsageLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, limit, 0)
}

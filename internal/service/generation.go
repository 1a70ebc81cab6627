package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oficialwritiai-cmd/WritiIA/internal/apperr"
	"github.com/oficialwritiai-cmd/WritiIA/internal/circuitbreaker"
	"github.com/oficialwritiai-cmd/WritiIA/internal/config"
	"github.com/oficialwritiai-cmd/WritiIA/internal/llm"
	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"github.com/oficialwritiai-cmd/WritiIA/internal/prompt"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
	"github.com/rs/zerolog"
)

// GenerationService runs the one pipeline every AI route shares: reserve
// credits, assemble the prompt, call the model through the breaker, extract
// and normalize the reply, persist, then best-effort bookkeeping. The routes
// differ only in their policy: prompt builder, model, cost and result shape.
type GenerationService struct {
	client  *llm.Client
	breaker *circuitbreaker.Breaker
	credits *CreditService
	usage   *UsageService
	brands  *repository.BrandRepository
	content *repository.ContentRepository
	cfg     *config.Config
	logger  zerolog.Logger
}

func NewGenerationService(
	client *llm.Client,
	credits *CreditService,
	usage *UsageService,
	brands *repository.BrandRepository,
	content *repository.ContentRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *GenerationService {
	return &GenerationService{
		client:  client,
		credits: credits,
		usage:   usage,
		brands:  brands,
		content: content,
		cfg:     cfg,
		logger:  logger.With().Str("component", "generation").Logger(),
		breaker: circuitbreaker.New(circuitbreaker.Config{
			MaxFailures: 5,
			Cooldown:    30 * time.Second,
			Tripping: func(err error) bool {
				return errors.Is(err, apperr.ErrUpstream)
			},
		}),
	}
}

// complete runs one guarded exchange with the model.
func (s *GenerationService) complete(ctx context.Context, req llm.Request) (*llm.Reply, error) {
	var reply *llm.Reply

	err := s.breaker.Call(func() error {
		var callErr error
		reply, callErr = s.client.Complete(ctx, req)
		return callErr
	})

	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, apperr.ErrUpstreamUnavailable
	}
	if err != nil {
		return nil, err
	}

	return reply, nil
}

// brandContext loads the user's brand profile block. Missing profiles and
// lookup failures both collapse to an empty block: personalization is an
// enhancement, not a precondition.
func (s *GenerationService) brandContext(ctx context.Context, userID string) string {
	profile, err := s.brands.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to load brand profile")
		return ""
	}
	return prompt.BrandContext(profile, s.cfg.Prompt.BrandContextBudget)
}

type ScriptRequest struct {
	UserID    string
	Topic     string
	Platform  string
	Tone      string
	Goal      string
	BrandName string
	Count     int
	Ideas     string
}

// GenerateScripts produces a batch of normalized scripts. The batch cost is
// flat regardless of count.
func (s *GenerationService) GenerateScripts(ctx context.Context, req ScriptRequest) ([]prompt.ScriptRecord, error) {
	count := req.Count
	if count < 1 {
		count = 1
	}
	if count > 4 {
		count = 4
	}

	cost := s.cfg.Credits.GenerateCost
	if err := s.credits.Reserve(ctx, req.UserID, cost); err != nil {
		return nil, err
	}

	system, user := prompt.Scripts(prompt.ScriptParams{
		Topic:        req.Topic,
		Platform:     req.Platform,
		Tone:         req.Tone,
		Goal:         req.Goal,
		BrandName:    req.BrandName,
		Count:        count,
		Ideas:        req.Ideas,
		BrandContext: s.brandContext(ctx, req.UserID),
	})

	reply, err := s.complete(ctx, llm.Request{
		Model:       s.cfg.Anthropic.ScriptModel,
		System:      system,
		UserMessage: user,
		Temperature: 0.8,
	})
	if err != nil {
		s.credits.Release(ctx, req.UserID, cost)
		return nil, err
	}

	items, err := llm.ExtractArray(reply.Text)
	if err != nil {
		s.logger.Error().Str("user_id", req.UserID).Str("raw", reply.Text).Msg("unparsable script reply")
		s.credits.Release(ctx, req.UserID, cost)
		return nil, err
	}

	scripts := prompt.NormalizeScripts(items, count)

	rows := make([]*models.Script, 0, len(scripts))
	for _, sc := range scripts {
		rows = append(rows, &models.Script{
			UserID:   req.UserID,
			Topic:    req.Topic,
			Platform: req.Platform,
			Tone:     req.Tone,
			Hook:     sc.Hook,
			Body:     sc.Body,
			CTA:      sc.CTA,
			Insights: sc.Insights,
		})
	}
	if err := s.content.CreateScripts(ctx, rows); err != nil {
		// The user already has their scripts; losing the library copy is not
		// worth failing the request over.
		s.logger.Error().Err(err).Str("user_id", req.UserID).Msg("failed to persist scripts")
	}

	s.usage.Record(ctx, req.UserID, "generate", reply.Usage)

	return scripts, nil
}

// GenerateViralIdeas is the strategic-idea variant of the generate endpoint.
func (s *GenerationService) GenerateViralIdeas(ctx context.Context, userID, topic string) ([]prompt.ViralIdeaRecord, error) {
	cost := s.cfg.Credits.GenerateCost
	if err := s.credits.Reserve(ctx, userID, cost); err != nil {
		return nil, err
	}

	system, user := prompt.ViralIdeas(topic, s.brandContext(ctx, userID))

	reply, err := s.complete(ctx, llm.Request{
		Model:       s.cfg.Anthropic.ScriptModel,
		System:      system,
		UserMessage: user,
		Temperature: 0.8,
	})
	if err != nil {
		s.credits.Release(ctx, userID, cost)
		return nil, err
	}

	items, err := llm.ExtractArray(reply.Text)
	if err != nil {
		s.logger.Error().Str("user_id", userID).Str("raw", reply.Text).Msg("unparsable viral idea reply")
		s.credits.Release(ctx, userID, cost)
		return nil, err
	}

	s.usage.Record(ctx, userID, "generate_viral", reply.Usage)

	return prompt.NormalizeViralIdeas(items), nil
}

type IdeasRequest struct {
	UserID    string
	Context   string
	Platforms []string
	UseSEO    bool
	UseTikTok bool
	Goal      string
	Count     int
}

func (s *GenerationService) GenerateIdeas(ctx context.Context, req IdeasRequest) ([]prompt.IdeaRecord, error) {
	count := req.Count
	if count < 1 {
		count = 10
	}
	if count > 30 {
		count = 30
	}

	cost := s.cfg.Credits.IdeasCost
	if err := s.credits.Reserve(ctx, req.UserID, cost); err != nil {
		return nil, err
	}

	system, user := prompt.ContentIdeas(prompt.IdeasParams{
		Context:   req.Context,
		Platforms: req.Platforms,
		UseSEO:    req.UseSEO,
		UseTikTok: req.UseTikTok,
		Goal:      req.Goal,
		Count:     count,
	})

	reply, err := s.complete(ctx, llm.Request{
		Model:       s.cfg.Anthropic.LightModel,
		System:      system,
		UserMessage: user,
		MaxTokens:   3000,
		Temperature: 0.8,
	})
	if err != nil {
		s.credits.Release(ctx, req.UserID, cost)
		return nil, err
	}

	items, err := llm.ExtractArray(reply.Text)
	if err != nil {
		s.logger.Error().Str("user_id", req.UserID).Str("raw", reply.Text).Msg("unparsable idea reply")
		s.credits.Release(ctx, req.UserID, cost)
		return nil, err
	}

	s.usage.Record(ctx, req.UserID, "generate_ideas", reply.Usage)

	return prompt.NormalizeIdeas(items), nil
}

type PlanRequest struct {
	UserID      string
	Description string
	Platforms   []string
	Frequency   string
	Focus       string
	Tone        string
	Context     string
}

// GeneratePlan produces and persists a monthly plan: one header row plus one
// slot row per generated item.
func (s *GenerationService) GeneratePlan(ctx context.Context, req PlanRequest) (*models.ContentPlan, []models.ContentSlot, error) {
	postCount := prompt.PostCountForFrequency(req.Frequency)

	cost := s.cfg.Credits.PlanCost
	if err := s.credits.Reserve(ctx, req.UserID, cost); err != nil {
		return nil, nil, err
	}

	system, user := prompt.Plan(prompt.PlanParams{
		Description:  req.Description,
		Platforms:    req.Platforms,
		Frequency:    req.Frequency,
		Focus:        req.Focus,
		Tone:         req.Tone,
		Context:      req.Context,
		PostCount:    postCount,
		BrandContext: s.brandContext(ctx, req.UserID),
	})

	reply, err := s.complete(ctx, llm.Request{
		Model:       s.cfg.Anthropic.LightModel,
		System:      system,
		UserMessage: user,
		Temperature: 0.7,
	})
	if err != nil {
		s.credits.Release(ctx, req.UserID, cost)
		return nil, nil, err
	}

	items, err := llm.ExtractArray(reply.Text)
	if err != nil {
		s.logger.Error().Str("user_id", req.UserID).Str("raw", reply.Text).Msg("unparsable plan reply")
		s.credits.Release(ctx, req.UserID, cost)
		return nil, nil, err
	}

	records := prompt.NormalizePlanSlots(items)

	now := time.Now()
	plan := &models.ContentPlan{
		UserID:    req.UserID,
		Month:     int(now.Month()),
		Year:      now.Year(),
		Frequency: req.Frequency,
		Platforms: req.Platforms,
		Focus:     req.Focus,
	}
	if err := s.content.CreatePlan(ctx, plan); err != nil {
		return nil, nil, apperr.Wrap(500, "Error guardando el plan.", err)
	}

	slots := make([]*models.ContentSlot, 0, len(records))
	for _, r := range records {
		slots = append(slots, &models.ContentSlot{
			PlanID:      plan.ID,
			UserID:      req.UserID,
			DayNumber:   r.DayNumber(),
			Platform:    r.Platform,
			ContentType: r.ContentType,
			IdeaTitle:   r.Title,
			Goal:        r.Goal,
			HasScript:   false,
		})
	}
	if err := s.content.CreateSlots(ctx, slots); err != nil {
		return nil, nil, apperr.Wrap(500, "Error guardando los slots del plan.", err)
	}

	s.usage.Record(ctx, req.UserID, "generate_plan", reply.Usage)

	saved := make([]models.ContentSlot, len(slots))
	for i, slot := range slots {
		saved[i] = *slot
	}

	return plan, saved, nil
}

type RefineRequest struct {
	UserID  string
	Text    string
	Type    string // gancho, desarrollo or cta
	Context string
}

// Refine improves one script block and returns the single rewritten version.
func (s *GenerationService) Refine(ctx context.Context, req RefineRequest) (string, error) {
	cost := s.cfg.Credits.RefineCost
	if err := s.credits.Reserve(ctx, req.UserID, cost); err != nil {
		return "", err
	}

	system, user := prompt.Refine(req.Text, req.Type, req.Context)

	reply, err := s.complete(ctx, llm.Request{
		Model:       s.cfg.Anthropic.LightModel,
		System:      system,
		UserMessage: user,
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		s.credits.Release(ctx, req.UserID, cost)
		return "", err
	}

	refined := strings.TrimSpace(reply.Text)
	if refined == "" {
		s.credits.Release(ctx, req.UserID, cost)
		return "", apperr.ErrNoResults
	}

	s.usage.Record(ctx, req.UserID, "refine_"+req.Type, reply.Usage)

	return refined, nil
}

// Polish rewrites a rough brand description into a professional brief for the
// knowledge base.
func (s *GenerationService) Polish(ctx context.Context, userID, text string) (string, error) {
	cost := s.cfg.Credits.PolishCost
	if err := s.credits.Reserve(ctx, userID, cost); err != nil {
		return "", err
	}

	system, user := prompt.Polish(text)

	reply, err := s.complete(ctx, llm.Request{
		Model:       s.cfg.Anthropic.ScriptModel,
		System:      system,
		UserMessage: user,
		MaxTokens:   400,
		Temperature: 0.7,
	})
	if err != nil {
		s.credits.Release(ctx, userID, cost)
		return "", err
	}

	polished := strings.TrimSpace(reply.Text)
	if polished == "" {
		s.credits.Release(ctx, userID, cost)
		return "", apperr.ErrNoResults
	}

	s.usage.Record(ctx, userID, "polish", reply.Usage)

	return polished, nil
}

// UpstreamState reports the breaker state for the health endpoint.
func (s *GenerationService) UpstreamState() string {
	return s.breaker.State().String()
}

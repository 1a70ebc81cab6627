package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oficialwritiai-cmd/WritiIA/internal/config"
	"github.com/oficialwritiai-cmd/WritiIA/internal/llm"
	"github.com/oficialwritiai-cmd/WritiIA/internal/middleware"
	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"github.com/oficialwritiai-cmd/WritiIA/internal/ratelimit"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
	"github.com/oficialwritiai-cmd/WritiIA/internal/service"
)

const scriptReply = `[
  {"gancho":"Hook 1","desarrollo":["a"],"cta":"CTA 1"},
  {"gancho":"Hook 2","desarrollo":["b"],"cta":"CTA 2"},
  {"gancho":"Hook 3","desarrollo":["c"],"cta":"CTA 3"},
  {"gancho":"Hook 4","desarrollo":["d"],"cta":"CTA 4"}
]`

// apiFixture stands up the full route surface against sqlite and a fake
// upstream, mirroring the production wiring.
type apiFixture struct {
	db            *gorm.DB
	router        *gin.Engine
	auth          *service.AuthService
	calls         atomic.Int64
	replyStatus   int
	replyText     string
	refineLimit   int
	generateLimit int
}

func newAPIFixture(t *testing.T, allotment int) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AICredit{},
		&models.UsageLog{},
		&models.ContentPlan{},
		&models.ContentSlot{},
		&models.Script{},
		&models.BrandProfile{},
		&models.WaitlistEntry{},
	))

	f := &apiFixture{
		db:            db,
		replyStatus:   http.StatusOK,
		replyText:     scriptReply,
		refineLimit:   25,
		generateLimit: 10,
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)

		if f.replyStatus != http.StatusOK {
			w.WriteHeader(f.replyStatus)
			fmt.Fprint(w, `{"error":{"type":"api_error","message":"boom"}}`)
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": f.replyText}},
			"usage":   map[string]int{"input_tokens": 100, "output_tokens": 300},
		})
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Anthropic: config.AnthropicConfig{
			APIKey:      "test-key",
			BaseURL:     upstream.URL,
			Version:     "2023-06-01",
			ScriptModel: "claude-3-5-sonnet-20241022",
			LightModel:  "claude-3-haiku-20240307",
			Timeout:     5 * time.Second,
			MaxTokens:   4096,
		},
		Credits: config.CreditsConfig{
			DefaultAllotment: allotment,
			GenerateCost:     5,
			PlanCost:         5,
			IdeasCost:        2,
			RefineCost:       1,
			PolishCost:       1,
		},
		RateLimit: config.RateLimitConfig{MaxKeys: 100},
		Prompt:    config.PromptConfig{BrandContextBudget: 5000},
	}

	logger := zerolog.Nop()

	creditService := service.NewCreditService(repository.NewCreditRepository(db), cfg.Credits, logger)
	usageService := service.NewUsageService(repository.NewUsageRepository(db), cfg.Anthropic, logger)
	f.auth = service.NewAuthService(repository.NewUserRepository(db), "test-secret", 1)

	generation := service.NewGenerationService(
		llm.NewClient(cfg.Anthropic, logger),
		creditService,
		usageService,
		repository.NewBrandRepository(db),
		repository.NewContentRepository(db),
		cfg,
		logger,
	)

	generateHandler := NewGenerateHandler(generation, logger)
	waitlistHandler := NewWaitlistHandler(repository.NewWaitlistRepository(db), logger)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/waitlist", waitlistHandler.Join)

	gen := v1.Group("")
	gen.Use(middleware.ResolveIdentity(f.auth))
	gen.POST("/generate",
		middleware.RateLimit(ratelimit.NewMemory(f.generateLimit, 100, time.Minute), logger),
		generateHandler.Generate)
	gen.POST("/generate-plan",
		middleware.RateLimit(ratelimit.NewMemory(5, 100, time.Minute), logger),
		generateHandler.Plan)
	gen.POST("/refine",
		middleware.RateLimit(ratelimit.NewMemory(f.refineLimit, 100, time.Minute), logger),
		generateHandler.Refine)

	f.router = router
	return f
}

func (f *apiFixture) post(t *testing.T, path string, body map[string]any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) usedCredits(t *testing.T, userID string) int {
	t.Helper()

	var credit models.AICredit
	err := f.db.Where("user_id = ?", userID).First(&credit).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return credit.UsedCredits
}

func TestGenerateHappyPath(t *testing.T) {
	f := newAPIFixture(t, 200)

	w := f.post(t, "/api/v1/generate", map[string]any{
		"topic":    "perder peso",
		"platform": "Reels",
		"count":    4,
		"userId":   "user-1",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Scripts []json.RawMessage `json:"scripts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Scripts, 4)

	assert.Equal(t, 5, f.usedCredits(t, "user-1"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestGenerateMissingTopicIsRejectedBeforeAnyCost(t *testing.T) {
	f := newAPIFixture(t, 200)

	w := f.post(t, "/api/v1/generate", map[string]any{
		"platform": "Reels",
		"userId":   "user-1",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "tema")
	assert.Zero(t, f.calls.Load())
	assert.Zero(t, f.usedCredits(t, "user-1"))
}

func TestGenerateWithoutIdentityIsUnauthorized(t *testing.T) {
	f := newAPIFixture(t, 200)

	w := f.post(t, "/api/v1/generate", map[string]any{
		"topic":    "perder peso",
		"platform": "Reels",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, f.calls.Load())
}

func TestGenerateExhaustedCreditsReturn402(t *testing.T) {
	f := newAPIFixture(t, 2)

	w := f.post(t, "/api/v1/generate", map[string]any{
		"topic":    "perder peso",
		"platform": "Reels",
		"userId":   "user-1",
	}, nil)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "créditos")
	assert.Zero(t, f.calls.Load())
	assert.Zero(t, f.usedCredits(t, "user-1"))
}

func TestRefineUnderCeilingAllEleven(t *testing.T) {
	f := newAPIFixture(t, 200)

	for i := 0; i < 11; i++ {
		w := f.post(t, "/api/v1/refine", map[string]any{
			"text":   "un gancho flojo",
			"type":   "gancho",
			"userId": "user-1",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code, "call %d", i+1)
	}
}

func TestGenerateOverCeilingReturns429(t *testing.T) {
	f := newAPIFixture(t, 200)

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = f.post(t, "/api/v1/generate", map[string]any{
			"topic":    "perder peso",
			"platform": "Reels",
			"userId":   "user-1",
		}, nil)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
}

func TestPlanFrequencyFiveProducesTwentySlots(t *testing.T) {
	var slots []string
	for day := 1; day <= 20; day++ {
		slots = append(slots, fmt.Sprintf(
			`{"dia":%d,"plataforma":"Instagram","tipo_contenido":"Reel","titulo_idea":"Idea %d","objetivo":"alcance"}`, day, day))
	}

	f := newAPIFixture(t, 200)
	f.replyText = "[" + strings.Join(slots, ",") + "]"

	w := f.post(t, "/api/v1/generate-plan", map[string]any{
		"description": "canal de cocina",
		"platforms":   []string{"Instagram"},
		"frequency":   "5 publicaciones por semana",
		"userId":      "user-1",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Slots []json.RawMessage `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Slots, 20)
}

func TestUpstreamFailureReturns502AndRefunds(t *testing.T) {
	f := newAPIFixture(t, 200)
	f.replyStatus = http.StatusServiceUnavailable

	w := f.post(t, "/api/v1/generate", map[string]any{
		"topic":    "perder peso",
		"platform": "Reels",
		"userId":   "user-1",
	}, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Zero(t, f.usedCredits(t, "user-1"))
}

func TestBearerTokenOverridesBodyUserID(t *testing.T) {
	f := newAPIFixture(t, 200)

	user, err := f.auth.Register(t.Context(), "ana@example.com", "contrasena123", "Ana")
	require.NoError(t, err)
	token, err := f.auth.Login(t.Context(), "ana@example.com", "contrasena123")
	require.NoError(t, err)

	w := f.post(t, "/api/v1/generate", map[string]any{
		"topic":    "perder peso",
		"platform": "Reels",
		"userId":   "someone-else",
	}, map[string]string{"Authorization": "Bearer " + token})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, 5, f.usedCredits(t, user.ID.String()))
	assert.Zero(t, f.usedCredits(t, "someone-else"))
}

func TestWaitlistAlwaysReportsSuccess(t *testing.T) {
	f := newAPIFixture(t, 200)

	w := f.post(t, "/api/v1/waitlist", map[string]any{"email": "ana@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	var count int64
	require.NoError(t, f.db.Model(&models.WaitlistEntry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWaitlistRejectsInvalidEmail(t *testing.T) {
	f := newAPIFixture(t, 200)

	w := f.post(t, "/api/v1/waitlist", map[string]any{"email": "not-an-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

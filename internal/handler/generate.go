package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/apperr"
	"github.com/oficialwritiai-cmd/WritiIA/internal/middleware"
	"github.com/oficialwritiai-cmd/WritiIA/internal/service"
)

type GenerateHandler struct {
	generation *service.GenerationService
	logger     zerolog.Logger
}

func NewGenerateHandler(generation *service.GenerationService, logger zerolog.Logger) *GenerateHandler {
	return &GenerateHandler{generation: generation, logger: logger}
}

// identity resolves the acting user: a validated token wins, the body field
// is the legacy fallback.
func identity(c *gin.Context, bodyUserID string) (string, error) {
	if id := middleware.UserID(c); id != "" {
		return id, nil
	}
	if bodyUserID != "" {
		return bodyUserID, nil
	}
	return "", apperr.ErrUnauthenticated
}

// Handles POST /api/v1/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req struct {
		Topic     string `json:"topic"`
		Platform  string `json:"platform"`
		Tone      string `json:"tone"`
		Goal      string `json:"goal"`
		BrandName string `json:"brandName"`
		Count     int    `json:"count"`
		Ideas     string `json:"ideas"`
		Mode      string `json:"mode"`
		UserID    string `json:"userId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido."})
		return
	}

	userID, err := identity(c, req.UserID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan campos obligatorios: tema."})
		return
	}

	ctx := c.Request.Context()

	if req.Mode == "viral" {
		ideas, err := h.generation.GenerateViralIdeas(ctx, userID, req.Topic)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ideas": ideas})
		return
	}

	if strings.TrimSpace(req.Platform) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan campos obligatorios: plataforma."})
		return
	}

	scripts, err := h.generation.GenerateScripts(ctx, service.ScriptRequest{
		UserID:    userID,
		Topic:     req.Topic,
		Platform:  req.Platform,
		Tone:      req.Tone,
		Goal:      req.Goal,
		BrandName: req.BrandName,
		Count:     req.Count,
		Ideas:     req.Ideas,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scripts": scripts})
}

// Handles POST /api/v1/generate-ideas
func (h *GenerateHandler) Ideas(c *gin.Context) {
	var req struct {
		Context   string   `json:"context"`
		Platforms []string `json:"platforms"`
		UseSEO    bool     `json:"useSEO"`
		UseTikTok bool     `json:"useTikTok"`
		Goal      string   `json:"goal"`
		Count     int      `json:"count"`
		UserID    string   `json:"userId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido."})
		return
	}

	userID, err := identity(c, req.UserID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	if strings.TrimSpace(req.Context) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan campos obligatorios: contexto."})
		return
	}

	ideas, err := h.generation.GenerateIdeas(c.Request.Context(), service.IdeasRequest{
		UserID:    userID,
		Context:   req.Context,
		Platforms: req.Platforms,
		UseSEO:    req.UseSEO,
		UseTikTok: req.UseTikTok,
		Goal:      req.Goal,
		Count:     req.Count,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

// Handles POST /api/v1/generate-plan
func (h *GenerateHandler) Plan(c *gin.Context) {
	var req struct {
		Description string   `json:"description"`
		Platforms   []string `json:"platforms"`
		Frequency   string   `json:"frequency"`
		Focus       string   `json:"focus"`
		Tone        string   `json:"tone"`
		Context     string   `json:"context"`
		UserID      string   `json:"userId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido."})
		return
	}

	userID, err := identity(c, req.UserID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	if strings.TrimSpace(req.Description) == "" || len(req.Platforms) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan campos obligatorios: descripción y plataformas."})
		return
	}

	plan, slots, err := h.generation.GeneratePlan(c.Request.Context(), service.PlanRequest{
		UserID:      userID,
		Description: req.Description,
		Platforms:   req.Platforms,
		Frequency:   req.Frequency,
		Focus:       req.Focus,
		Tone:        req.Tone,
		Context:     req.Context,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan, "slots": slots})
}

// Handles POST /api/v1/refine
func (h *GenerateHandler) Refine(c *gin.Context) {
	var req struct {
		Text    string `json:"text"`
		Type    string `json:"type"`
		Context string `json:"context"`
		UserID  string `json:"userId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido."})
		return
	}

	userID, err := identity(c, req.UserID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan campos obligatorios: texto."})
		return
	}
	switch req.Type {
	case "gancho", "desarrollo", "cta":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo inválido. Usa: gancho, desarrollo o cta."})
		return
	}

	refined, err := h.generation.Refine(c.Request.Context(), service.RefineRequest{
		UserID:  userID,
		Text:    req.Text,
		Type:    req.Type,
		Context: req.Context,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"refinedText": refined})
}

// Handles POST /api/v1/polish
func (h *GenerateHandler) Polish(c *gin.Context) {
	var req struct {
		Text   string `json:"text"`
		UserID string `json:"userId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido."})
		return
	}

	userID, err := identity(c, req.UserID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan campos obligatorios: texto."})
		return
	}

	polished, err := h.generation.Polish(c.Request.Context(), userID, req.Text)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"polishedText": polished})
}

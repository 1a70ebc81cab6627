package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/middleware"
	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
)

type BrandHandler struct {
	repo   *repository.BrandRepository
	logger zerolog.Logger
}

func NewBrandHandler(repo *repository.BrandRepository, logger zerolog.Logger) *BrandHandler {
	return &BrandHandler{repo: repo, logger: logger}
}

// Handles GET /api/v1/brand
func (h *BrandHandler) Get(c *gin.Context) {
	profile, err := h.repo.FindByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	if profile == nil {
		c.JSON(http.StatusOK, gin.H{"profile": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Handles PUT /api/v1/brand
func (h *BrandHandler) Put(c *gin.Context) {
	var req struct {
		Biography    string `json:"biography"`
		Audience     string `json:"audience"`
		ValuesTone   string `json:"values_tone"`
		NicheTopics  string `json:"niche_topics"`
		KnowledgeRaw string `json:"knowledge_raw"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la solicitud inválido."})
		return
	}

	profile := &models.BrandProfile{
		UserID:       middleware.UserID(c),
		Biography:    req.Biography,
		Audience:     req.Audience,
		ValuesTone:   req.ValuesTone,
		NicheTopics:  req.NicheTopics,
		KnowledgeRaw: req.KnowledgeRaw,
	}

	if err := h.repo.Upsert(c.Request.Context(), profile); err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

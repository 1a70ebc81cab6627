package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/middleware"
	"github.com/oficialwritiai-cmd/WritiIA/internal/service"
)

type UsageHandler struct {
	credits *service.CreditService
	usage   *service.UsageService
	logger  zerolog.Logger
}

func NewUsageHandler(credits *service.CreditService, usage *service.UsageService, logger zerolog.Logger) *UsageHandler {
	return &UsageHandler{credits: credits, usage: usage, logger: logger}
}

// Handles GET /api/v1/credits
func (h *UsageHandler) Credits(c *gin.Context) {
	balance, err := h.credits.Balance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_credits": balance.TotalCredits,
		"used_credits":  balance.UsedCredits,
		"available":     balance.Available(),
	})
}

// Handles GET /api/v1/usage/summary
func (h *UsageHandler) Summary(c *gin.Context) {
	from, to, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rango de fechas inválido. Usa RFC3339 o timestamps Unix."})
		return
	}

	summary, err := h.usage.Summary(c.Request.Context(), middleware.UserID(c), from, to)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Handles GET /api/v1/usage/recent
func (h *UsageHandler) Recent(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 500 {
			limit = l
		}
	}

	logs, err := h.usage.Recent(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit})
}

// Parses 'from' and 'to' query parameters, defaulting to the last 30 days.
func parseTimeRange(c *gin.Context) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := parseTimestamp(fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}

	if toStr := c.Query("to"); toStr != "" {
		parsed, err := parseTimestamp(toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}

	return from, to, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	unix, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(unix, 0), nil
}

package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
)

const (
	auditBatchSize     = 100
	auditFlushInterval = 5 * time.Second
)

// RequestAuditor records every HTTP request as an audit row, batched off the
// request path so logging never adds latency.
type RequestAuditor struct {
	repo    *repository.RequestLogRepository
	logger  zerolog.Logger
	entries chan models.RequestLog
	done    chan struct{}
}

func NewRequestAuditor(repo *repository.RequestLogRepository, logger zerolog.Logger, bufferSize int) *RequestAuditor {
	a := &RequestAuditor{
		repo:    repo,
		logger:  logger.With().Str("component", "audit").Logger(),
		entries: make(chan models.RequestLog, bufferSize),
		done:    make(chan struct{}),
	}

	go a.run()

	return a
}

func (a *RequestAuditor) run() {
	batch := make([]*models.RequestLog, 0, auditBatchSize)
	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := a.repo.CreateBatch(context.Background(), batch); err != nil {
			a.logger.Error().Err(err).Int("count", len(batch)).Msg("failed to insert request logs")
		}
		batch = make([]*models.RequestLog, 0, auditBatchSize)
	}

	for {
		select {
		case entry, ok := <-a.entries:
			if !ok {
				flush()
				close(a.done)
				return
			}
			e := entry
			batch = append(batch, &e)
			if len(batch) >= auditBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Stop flushes buffered entries and waits for the worker to exit.
func (a *RequestAuditor) Stop() {
	close(a.entries)
	<-a.done
}

func (a *RequestAuditor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := models.RequestLog{
			Timestamp:      start,
			UserID:         c.GetString("user_id"),
			Method:         c.Request.Method,
			Path:           c.Request.URL.Path,
			StatusCode:     c.Writer.Status(),
			ResponseTimeMs: int(time.Since(start).Milliseconds()),
			IPAddress:      c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
		}

		select {
		case a.entries <- entry:
		default:
			// Buffer full. Dropping the row beats blocking the response.
			a.logger.Warn().Msg("audit buffer full, dropping entry")
		}
	}
}

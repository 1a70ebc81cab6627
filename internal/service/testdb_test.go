package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oficialwritiai-cmd/WritiIA/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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
		&models.RequestLog{},
	))

	return db
}

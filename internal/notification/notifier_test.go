package notification

import (
	"testing"

	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func TestNotifyStoresInboxRow(t *testing.T) {
	db := newTestDB(t)
	p := NewPublisher(db, "")

	p.Notify(42, models.NotifyOrderCreated, "New order received", "Order ORD-ABC12345 was placed.")

	var rows []models.Notification
	require.NoError(t, db.Where("user_id = ?", 42).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotifyOrderCreated, rows[0].Type)
	assert.Equal(t, "New order received", rows[0].Title)
	assert.False(t, rows[0].Read)
}

func TestNotifyOnNilPublisherIsSafe(t *testing.T) {
	var p *Publisher
	p.Notify(1, models.NotifyOrderStatus, "title", "body")
}

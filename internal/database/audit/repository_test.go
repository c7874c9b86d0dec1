package audit

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartlibrary/server/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_audit_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestCreateAndGetEvents(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.CreateEvent(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventLoan,
		Action:    "loan.issue",
		Status:    entities.AuditStatusSuccess,
	}))
	require.NoError(t, repo.CreateEvent(&entities.AuditEvent{
		UserID:    2,
		EventType: entities.AuditEventAuth,
		Action:    "auth.login",
		Status:    entities.AuditStatusFailed,
	}))

	all, err := repo.GetEvents(EventFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byUser, err := repo.GetEvents(EventFilter{UserID: 1})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "loan.issue", byUser[0].Action)

	byType, err := repo.GetEvents(EventFilter{EventType: entities.AuditEventAuth})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, entities.AuditStatusFailed, byType[0].Status)

	limited, err := repo.GetEvents(EventFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeleteOldEvents(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	old := &entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventLoan,
		Action:    "loan.issue",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().AddDate(0, 0, -120),
	}
	require.NoError(t, repo.CreateEvent(old))
	require.NoError(t, repo.CreateEvent(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventLoan,
		Action:    "loan.return",
		Status:    entities.AuditStatusSuccess,
	}))

	deleted, err := repo.DeleteOldEvents(time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	remaining, err := repo.GetEvents(EventFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "loan.return", remaining[0].Action)
}

package registration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestLedger(t *testing.T) (*GORMLedger, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ledger := NewGORMLedger(db, zap.NewNop())
	require.NoError(t, ledger.Migrate())
	return ledger, db
}

func TestGORMLedger_RecordAssignsID(t *testing.T) {
	ledger, db := newTestLedger(t)

	entry := &LedgerEntry{UserName: "maria", Email: "maria@example.com", Outcome: OutcomeNotifyFailed, Detail: "topic does not exist"}
	require.NoError(t, ledger.Record(context.Background(), entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)

	var stored LedgerEntry
	require.NoError(t, db.First(&stored, "id = ?", entry.ID).Error)
	assert.Equal(t, OutcomeNotifyFailed, stored.Outcome)
	assert.Equal(t, "topic does not exist", stored.Detail)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestGORMLedger_DeleteOlderThan(t *testing.T) {
	ledger, db := newTestLedger(t)
	ctx := context.Background()
	now := time.Now()

	old := &LedgerEntry{UserName: "old", Email: "old@example.com", Outcome: OutcomeCreated, CreatedAt: now.AddDate(0, 0, -120)}
	recent := &LedgerEntry{UserName: "recent", Email: "recent@example.com", Outcome: OutcomeCreated, CreatedAt: now.AddDate(0, 0, -1)}
	require.NoError(t, ledger.Record(ctx, old))
	require.NoError(t, ledger.Record(ctx, recent))

	deleted, err := ledger.DeleteOlderThan(ctx, now.AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []LedgerEntry
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].UserName)
}

func TestNopLedger(t *testing.T) {
	assert.NoError(t, NopLedger{}.Record(context.Background(), &LedgerEntry{}))
}

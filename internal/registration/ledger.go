// File: internal/registration/ledger.go
package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LedgerEntry is one registration attempt that reached the identity provider.
type LedgerEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserName  string    `gorm:"type:varchar(255);not null;index"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Outcome   Outcome   `gorm:"type:varchar(32);not null;index"`
	Detail    string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index"`
}

// TableName specifies the table name for GORM.
func (LedgerEntry) TableName() string {
	return "registration_ledger"
}

// BeforeCreate assigns the id.
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Recorder stores registration attempts for later reconciliation.
type Recorder interface {
	Record(ctx context.Context, entry *LedgerEntry) error
}

// GORMLedger stores the ledger in a relational database through gorm.
type GORMLedger struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGORMLedger creates a new GORMLedger.
func NewGORMLedger(db *gorm.DB, logger *zap.Logger) *GORMLedger {
	return &GORMLedger{db: db, logger: logger.Named("ledger")}
}

// Migrate creates or updates the ledger table.
func (l *GORMLedger) Migrate() error {
	if err := l.db.AutoMigrate(&LedgerEntry{}); err != nil {
		return fmt.Errorf("failed to migrate registration ledger: %w", err)
	}
	l.logger.Info("Registration ledger table ready")
	return nil
}

func (l *GORMLedger) Record(ctx context.Context, entry *LedgerEntry) error {
	if err := l.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record registration attempt: %w", err)
	}
	return nil
}

// DeleteOlderThan removes entries created before cutoff and returns how many were removed.
func (l *GORMLedger) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := l.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&LedgerEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune registration ledger: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// NopLedger discards everything. Used when no database is configured.
type NopLedger struct{}

func (NopLedger) Record(context.Context, *LedgerEntry) error { return nil }

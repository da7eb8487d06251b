package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 2
	connMaxLifetime = 5 * time.Minute
)

// kvEntry is one persisted document, keyed by store namespace.
type kvEntry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLite implements Adapter on a single-table SQLite database via GORM.
type SQLite struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL", path)

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLite{db: gormDB}, nil
}

// Load returns the document stored under key.
func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	var entry kvEntry
	result := s.db.WithContext(ctx).Where("key = ?", key).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to load %q: %w", key, result.Error)
	}
	return entry.Value, nil
}

// Save upserts the document stored under key.
func (s *SQLite) Save(ctx context.Context, key string, data []byte) error {
	entry := kvEntry{Key: key, Value: data, UpdatedAt: time.Now().UTC()}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry)
	if result.Error != nil {
		return fmt.Errorf("failed to save %q: %w", key, result.Error)
	}
	return nil
}

// Delete removes the document stored under key, if any.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where("key = ?", key).Delete(&kvEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete %q: %w", key, result.Error)
	}
	return nil
}

// Health checks database connectivity.
func (s *SQLite) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// SQLDB returns the underlying sql.DB for migrations.
func (s *SQLite) SQLDB() (*sql.DB, error) {
	return s.db.DB()
}

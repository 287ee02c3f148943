package kv

import (
	"context"
	"errors"
	"time"

	driver "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var _ Store = (*sqliteStore)(nil)

type record struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (record) TableName() string {
	return "kv_records"
}

type sqliteStore struct {
	db *gorm.DB
}

// NewSQLite opens (or creates) a sqlite database at path and migrates the
// kv_records table.
func NewSQLite(path string) (Store, error) {
	db, err := gorm.Open(driver.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	var dbo record

	if err := s.db.WithContext(ctx).First(&dbo, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}

		return "", err
	}

	return dbo.Value, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	dbo := record{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	return s.db.WithContext(ctx).Save(&dbo).Error
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&record{}, "key = ?", key).Error
}

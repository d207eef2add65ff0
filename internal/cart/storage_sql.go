package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/db/models"
)

// SQLStorage persists carts in the cart_snapshots table.
type SQLStorage struct {
	db *gorm.DB
}

// NewSQLStorage binds the storage to the provided GORM handle.
func NewSQLStorage(db *gorm.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

func (s *SQLStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var snap models.CartSnapshot
	err := s.db.WithContext(ctx).
		Where("storage_key = ?", key).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(snap.Payload), nil
}

func (s *SQLStorage) Save(ctx context.Context, key string, payload []byte) error {
	snap := models.CartSnapshot{
		StorageKey: key,
		Payload:    string(payload),
		UpdatedAt:  time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&snap).Error
}

func (s *SQLStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

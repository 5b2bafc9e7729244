package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simpleshop/storefront-core/pkg/db/models"
)

// SnapshotRepository persists cart snapshots in the local sqlite database.
type SnapshotRepository struct {
	db  *gorm.DB
	key string
}

// NewSnapshotRepository binds the repository to the provided DB handle and
// storage key.
func NewSnapshotRepository(db *gorm.DB, key string) *SnapshotRepository {
	return &SnapshotRepository{db: db, key: key}
}

// Save upserts the snapshot row, replacing the previous payload wholesale.
func (r *SnapshotRepository) Save(ctx context.Context, payload []byte) error {
	record := models.CartSnapshot{
		Key:       r.key,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&record).Error
}

// Load returns the last persisted payload or ErrSnapshotNotFound.
func (r *SnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	var record models.CartSnapshot
	err := r.db.WithContext(ctx).
		Where("key = ?", r.key).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Payload, nil
}

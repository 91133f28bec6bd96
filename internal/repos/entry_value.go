package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/diary-backend/internal/logger"
	"github.com/yungbote/diary-backend/internal/types"
)

// ValueRow is one (date, parameter key, value) observation as consumed by the
// training-table builder and the history API.
type ValueRow struct {
	Date  time.Time
	Key   string
	Value float64
}

type EntryValueRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, entryID, parameterID uuid.UUID, value float64) (created bool, err error)
	Delete(ctx context.Context, tx *gorm.DB, entryID, parameterID uuid.UUID) error
	ListForEntry(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) ([]*types.EntryValue, error)
	ListRows(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]ValueRow, error)
	ListRowsByKey(ctx context.Context, tx *gorm.DB, key string) ([]ValueRow, error)
}

type entryValueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryValueRepo(db *gorm.DB, baseLog *logger.Logger) EntryValueRepo {
	repoLog := baseLog.With("repo", "EntryValueRepo")
	return &entryValueRepo{db: db, log: repoLog}
}

// Upsert writes the value for one (entry, parameter) pair; a second write to
// the same pair overwrites.
func (r *entryValueRepo) Upsert(ctx context.Context, tx *gorm.DB, entryID, parameterID uuid.UUID, value float64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ev types.EntryValue
	err := transaction.WithContext(ctx).
		Where("entry_id = ? AND parameter_id = ?", entryID, parameterID).
		First(&ev).Error
	if err == nil {
		ev.Value = value
		if err := transaction.WithContext(ctx).Save(&ev).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	ev = types.EntryValue{EntryID: entryID, ParameterID: parameterID, Value: value}
	if err := transaction.WithContext(ctx).Create(&ev).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Delete clears a value. A null value on update means delete, not zero.
func (r *entryValueRepo) Delete(ctx context.Context, tx *gorm.DB, entryID, parameterID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("entry_id = ? AND parameter_id = ?", entryID, parameterID).
		Delete(&types.EntryValue{}).Error
}

func (r *entryValueRepo) ListForEntry(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) ([]*types.EntryValue, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var values []*types.EntryValue
	err := transaction.WithContext(ctx).
		Preload("Parameter").
		Where("entry_id = ?", entryID).
		Find(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// ListRows is the observation-store query surface for the training-table
// builder: every value joined to its entry date and parameter key.
func (r *entryValueRepo) ListRows(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]ValueRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Table("entry_value").
		Select("entry.date AS date, parameter.key AS key, entry_value.value AS value").
		Joins("JOIN entry ON entry.id = entry_value.entry_id").
		Joins("JOIN parameter ON parameter.id = entry_value.parameter_id")
	if activeOnly {
		q = q.Where("parameter.is_active = ?", true)
	}
	var rows []ValueRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *entryValueRepo) ListRowsByKey(ctx context.Context, tx *gorm.DB, key string) ([]ValueRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []ValueRow
	err := transaction.WithContext(ctx).
		Table("entry_value").
		Select("entry.date AS date, parameter.key AS key, entry_value.value AS value").
		Joins("JOIN entry ON entry.id = entry_value.entry_id").
		Joins("JOIN parameter ON parameter.id = entry_value.parameter_id").
		Where("parameter.key = ?", key).
		Order("entry.date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/diary-backend/internal/logger"
	"github.com/yungbote/diary-backend/internal/types"
)

type EntryRepo interface {
	GetOrCreateByDate(ctx context.Context, tx *gorm.DB, date time.Time) (*types.Entry, bool, error)
	UpdateComment(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, comment string) error
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	repoLog := baseLog.With("repo", "EntryRepo")
	return &entryRepo{db: db, log: repoLog}
}

// GetOrCreateByDate returns the entry for the given calendar date, creating
// it lazily on first touch. The bool reports whether a new row was created.
func (r *entryRepo) GetOrCreateByDate(ctx context.Context, tx *gorm.DB, date time.Time) (*types.Entry, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	day := truncateToDay(date)

	var entry types.Entry
	err := transaction.WithContext(ctx).Where("date = ?", day).First(&entry).Error
	if err == nil {
		return &entry, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	entry = types.Entry{Date: day}
	if err := transaction.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, false, err
	}
	r.log.Debug("Created entry", "date", day.Format("2006-01-02"))
	return &entry, true, nil
}

func (r *entryRepo) UpdateComment(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, comment string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Entry{}).
		Where("id = ?", entryID).
		Update("comment", comment).Error
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

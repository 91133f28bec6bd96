package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/diary-backend/internal/logger"
	"github.com/yungbote/diary-backend/internal/repos"
	"github.com/yungbote/diary-backend/internal/types"
)

// DayData is everything the entry page needs for one date.
type DayData struct {
	Entry      *types.Entry       `json:"entry"`
	Parameters []*types.Parameter `json:"parameters"`
	Values     map[string]float64 `json:"values"`
}

type DiaryService interface {
	GetDay(ctx context.Context, date time.Time) (*DayData, error)
	UpdateComment(ctx context.Context, date time.Time, comment string) error
	// UpdateValue upserts one parameter value for a date; a nil value is a
	// delete, not a zero.
	UpdateValue(ctx context.Context, date time.Time, parameterKey string, value *float64) error
	ParameterHistory(ctx context.Context, parameterKey string) ([]repos.ValueRow, error)
}

type diaryService struct {
	db            *gorm.DB
	log           *logger.Logger
	entryRepo     repos.EntryRepo
	parameterRepo repos.ParameterRepo
	valueRepo     repos.EntryValueRepo
}

func NewDiaryService(db *gorm.DB, log *logger.Logger, entryRepo repos.EntryRepo, parameterRepo repos.ParameterRepo, valueRepo repos.EntryValueRepo) DiaryService {
	serviceLog := log.With("service", "DiaryService")
	return &diaryService{
		db:            db,
		log:           serviceLog,
		entryRepo:     entryRepo,
		parameterRepo: parameterRepo,
		valueRepo:     valueRepo,
	}
}

func (s *diaryService) GetDay(ctx context.Context, date time.Time) (*DayData, error) {
	entry, created, err := s.entryRepo.GetOrCreateByDate(ctx, nil, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	if created {
		s.log.Debug("Created entry for day view", "date", date.Format("2006-01-02"))
	}

	params, err := s.parameterRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}

	values, err := s.valueRepo.ListForEntry(ctx, nil, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry values: %w", err)
	}
	valuesMap := make(map[string]float64, len(values))
	for _, v := range values {
		if v.Parameter != nil {
			valuesMap[v.Parameter.Key] = v.Value
		}
	}

	return &DayData{Entry: entry, Parameters: params, Values: valuesMap}, nil
}

func (s *diaryService) UpdateComment(ctx context.Context, date time.Time, comment string) error {
	entry, _, err := s.entryRepo.GetOrCreateByDate(ctx, nil, date)
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}
	if err := s.entryRepo.UpdateComment(ctx, nil, entry.ID, comment); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

func (s *diaryService) UpdateValue(ctx context.Context, date time.Time, parameterKey string, value *float64) error {
	param, err := s.parameterRepo.GetByKey(ctx, nil, parameterKey)
	if err != nil {
		return fmt.Errorf("unknown parameter %q: %w", parameterKey, err)
	}
	entry, _, err := s.entryRepo.GetOrCreateByDate(ctx, nil, date)
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}

	if value == nil {
		if err := s.valueRepo.Delete(ctx, nil, entry.ID, param.ID); err != nil {
			return fmt.Errorf("failed to clear value: %w", err)
		}
		s.log.Debug("Cleared value", "date", date.Format("2006-01-02"), "parameter", parameterKey)
		return nil
	}

	if _, err := s.valueRepo.Upsert(ctx, nil, entry.ID, param.ID, *value); err != nil {
		return fmt.Errorf("failed to upsert value: %w", err)
	}
	s.log.Debug("Saved value", "date", date.Format("2006-01-02"), "parameter", parameterKey, "value", *value)
	return nil
}

func (s *diaryService) ParameterHistory(ctx context.Context, parameterKey string) ([]repos.ValueRow, error) {
	return s.valueRepo.ListRowsByKey(ctx, nil, parameterKey)
}

package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/diary-backend/internal/logger"
	"github.com/yungbote/diary-backend/internal/ml"
	"github.com/yungbote/diary-backend/internal/repos"
)

// RetrainReport is the batch outcome of retraining every active parameter:
// one human-readable line per target and an overall flag. Status is "error"
// when any target failed; skips are clean.
type RetrainReport struct {
	Status  string   `json:"status"`
	Results []string `json:"results"`
}

type PredictionService interface {
	RetrainAll(ctx context.Context, strategy string) (*RetrainReport, error)
	// PredictForDate predicts every active parameter from the values already
	// recorded on the given date. Keys are "{parameter_key}_{strategy}",
	// values rounded to 2 decimals; targets with no trained model are
	// omitted, so the map is empty when nothing is trained yet.
	PredictForDate(ctx context.Context, strategy string, date time.Time) (map[string]float64, error)
}

type predictionService struct {
	db            *gorm.DB
	log           *logger.Logger
	valueRepo     repos.EntryValueRepo
	parameterRepo repos.ParameterRepo
	manager       *ml.PredictorManager
	now           func() time.Time
}

func NewPredictionService(db *gorm.DB, log *logger.Logger, valueRepo repos.EntryValueRepo, parameterRepo repos.ParameterRepo, manager *ml.PredictorManager) PredictionService {
	serviceLog := log.With("service", "PredictionService")
	return &predictionService{
		db:            db,
		log:           serviceLog,
		valueRepo:     valueRepo,
		parameterRepo: parameterRepo,
		manager:       manager,
		now:           time.Now,
	}
}

func (s *predictionService) RetrainAll(ctx context.Context, strategy string) (*RetrainReport, error) {
	rows, err := s.valueRepo.ListRows(ctx, nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}

	// Rows from today or later are excluded so the label never leaks into
	// its own features while the day is still being filled in.
	frame := ml.BuildFrame(toObservations(rows)).Before(startOfDay(s.now()))
	s.log.Info("Retraining all targets", "strategy", strategy, "rows", len(frame.Dates), "columns", len(frame.Columns))

	results, err := s.manager.TrainAll(frame, strategy)
	if err != nil {
		return nil, err
	}

	report := &RetrainReport{Status: "ok"}
	for _, r := range results {
		switch r.Status {
		case ml.StatusTrained:
			report.Results = append(report.Results, fmt.Sprintf("%s: trained", r.Target))
		case ml.StatusSkipped:
			report.Results = append(report.Results, fmt.Sprintf("%s: skipped (%s)", r.Target, r.Reason))
		case ml.StatusFailed:
			report.Results = append(report.Results, fmt.Sprintf("%s: failed (%s)", r.Target, r.Reason))
			report.Status = "error"
		}
	}
	return report, nil
}

func (s *predictionService) PredictForDate(ctx context.Context, strategy string, date time.Time) (map[string]float64, error) {
	params, err := s.parameterRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}

	rows, err := s.valueRepo.ListRows(ctx, nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}
	today := ml.BuildFrame(toObservations(rows)).Row(date)

	predictions := map[string]float64{}
	for _, p := range params {
		pred, ok, err := s.manager.PredictToday(strategy, p.Key, today)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		predictions[fmt.Sprintf("%s_%s", p.Key, strategy)] = math.Round(pred*100) / 100
	}
	return predictions, nil
}

func toObservations(rows []repos.ValueRow) []ml.Observation {
	obs := make([]ml.Observation, len(rows))
	for i, r := range rows {
		obs[i] = ml.Observation{Date: r.Date, Key: r.Key, Value: r.Value}
	}
	return obs
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package ml

import (
	"errors"
	"fmt"

	"github.com/yungbote/diary-backend/internal/logger"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// TrainStatus tags one target's outcome in a batch retrain.
type TrainStatus string

const (
	StatusTrained TrainStatus = "trained"
	StatusSkipped TrainStatus = "skipped"
	StatusFailed  TrainStatus = "failed"
)

type TrainResult struct {
	Target string
	Status TrainStatus
	Reason string
}

// PredictorManager dispatches by strategy name to the matching trainer and
// predictor and owns the per-target failure boundary: one target's error is
// recorded and never aborts its siblings.
type PredictorManager struct {
	strategies map[string]Strategy
	store      *ModelStore
	log        *logger.Logger
}

func NewPredictorManager(store *ModelStore, baseLog *logger.Logger) *PredictorManager {
	mgrLog := baseLog.With("component", "PredictorManager")
	strategies := map[string]Strategy{}
	for _, s := range []Strategy{newBaseStrategy(mgrLog), flagsStrategy{}} {
		strategies[s.Name()] = s
	}
	return &PredictorManager{strategies: strategies, store: store, log: mgrLog}
}

func (m *PredictorManager) strategy(name string) (Strategy, error) {
	s, ok := m.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// TrainAll trains every frame column as a candidate target and saves the
// successes. It returns one result per target; a whole-batch error happens
// only for an unknown or not-yet-implemented strategy.
func (m *PredictorManager) TrainAll(frame *Frame, strategyName string) ([]TrainResult, error) {
	strat, err := m.strategy(strategyName)
	if err != nil {
		return nil, err
	}

	if frame.IsEmpty() {
		m.log.Warn("Training table is empty, nothing to train", "strategy", strategyName)
		return nil, nil
	}

	results := make([]TrainResult, 0, len(frame.Columns))
	for _, target := range frame.Columns {
		result, err := m.trainOne(strat, frame, target)
		if err != nil {
			// Only a reserved-but-unimplemented strategy aborts the
			// batch; per-target failures are recorded and skipped over.
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (m *PredictorManager) trainOne(strat Strategy, frame *Frame, target string) (result TrainResult, fatal error) {
	result = TrainResult{Target: target}
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Training panicked", "strategy", strat.Name(), "target", target, "panic", r)
			result.Status = StatusFailed
			result.Reason = fmt.Sprintf("panic: %v", r)
		}
	}()

	outcome, err := strat.Train(frame, target, []string{target})
	if err != nil {
		if errors.Is(err, ErrStrategyNotImplemented) {
			return result, err
		}
		m.log.Error("Training failed", "strategy", strat.Name(), "target", target, "error", err)
		result.Status = StatusFailed
		result.Reason = err.Error()
		return result, nil
	}
	if outcome.Skipped {
		result.Status = StatusSkipped
		result.Reason = outcome.Reason
		return result, nil
	}
	if err := m.store.Save(outcome.Artifact); err != nil {
		m.log.Error("Saving artifact failed", "strategy", strat.Name(), "target", target, "error", err)
		result.Status = StatusFailed
		result.Reason = err.Error()
		return result, nil
	}
	result.Status = StatusTrained
	return result, nil
}

// PredictToday loads the artifact for (strategy, target) and evaluates it on
// the partially filled today row. The bool is false when no prediction is
// available for the target: nothing trained yet, or inference failed.
func (m *PredictorManager) PredictToday(strategyName, target string, today map[string]float64) (float64, bool, error) {
	strat, err := m.strategy(strategyName)
	if err != nil {
		return 0, false, err
	}

	// A missing artifact is passed through as nil so the strategy itself
	// decides: base reports no-model, the flags placeholder reports
	// not-implemented rather than pretending to be merely untrained.
	artifact, err := m.store.Load(strategyName, target)
	if err != nil && !errors.Is(err, ErrModelNotFound) {
		return 0, false, nil
	}

	pred, err := strat.Predict(artifact, today)
	switch {
	case errors.Is(err, ErrStrategyNotImplemented):
		return 0, false, err
	case errors.Is(err, ErrModelNotFound):
		return 0, false, nil
	case err != nil:
		m.log.Error("Prediction failed", "strategy", strategyName, "target", target, "today", today, "error", err)
		return 0, false, nil
	}
	return pred, true, nil
}

package ml

import (
	"errors"
	"time"

	"github.com/yungbote/diary-backend/internal/logger"
)

const (
	// Domain range of every tracked parameter; raw linear output is clamped
	// to it because a rating outside [0,5] has no meaning in the diary.
	RatingMin = 0.0
	RatingMax = 5.0
)

var ErrStrategyNotImplemented = errors.New("strategy not implemented")

// FitOutcome is the result of training one target: either a usable artifact
// or an explicit skip (no usable features), so callers cannot mistake a skip
// for a trained model.
type FitOutcome struct {
	Artifact *Artifact
	Skipped  bool
	Reason   string
}

// Strategy is one named prediction algorithm family. Adding a strategy means
// adding an implementation here, not another string branch.
type Strategy interface {
	Name() string
	Train(frame *Frame, target string, exclude []string) (*FitOutcome, error)
	Predict(a *Artifact, today map[string]float64) (float64, error)
}

// baseStrategy is plain per-target linear regression over every other
// parameter recorded in the frame.
type baseStrategy struct {
	log *logger.Logger
}

func newBaseStrategy(baseLog *logger.Logger) *baseStrategy {
	return &baseStrategy{log: baseLog.With("strategy", "base")}
}

func (s *baseStrategy) Name() string { return "base" }

func (s *baseStrategy) Train(frame *Frame, target string, exclude []string) (*FitOutcome, error) {
	skip := map[string]struct{}{target: {}}
	for _, k := range exclude {
		skip[k] = struct{}{}
	}

	var features []string
	for _, col := range frame.Columns {
		if _, drop := skip[col]; drop {
			continue
		}
		features = append(features, col)
	}

	if len(features) == 0 {
		s.log.Warn("Skipping training, no usable features", "target", target)
		return &FitOutcome{Skipped: true, Reason: "no usable features"}, nil
	}

	x, y := frame.TrainingData(target, features)
	model, err := FitLinear(x, y)
	if err != nil {
		return nil, err
	}

	s.log.Debug("Trained base model", "target", target, "rows", len(y), "features", len(features))
	return &FitOutcome{Artifact: &Artifact{
		Strategy:  s.Name(),
		Target:    target,
		Features:  features,
		Model:     model,
		TrainedAt: time.Now().UTC(),
	}}, nil
}

func (s *baseStrategy) Predict(a *Artifact, today map[string]float64) (float64, error) {
	if a == nil || a.Model == nil {
		return 0, ErrModelNotFound
	}
	// Rebuild the input vector in the artifact's stored feature order;
	// absent keys impute 0.0, matching training-time imputation.
	vec := make([]float64, len(a.Features))
	for j, feat := range a.Features {
		vec[j] = today[feat]
	}
	raw, err := a.Model.Predict(vec)
	if err != nil {
		return 0, err
	}
	return clamp(raw, RatingMin, RatingMax), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// flagsStrategy is a reserved slot for the planned flag-aware model. It is
// registered so the name resolves, but every call reports not-implemented
// instead of silently falling back to base.
type flagsStrategy struct{}

func (flagsStrategy) Name() string { return "flags" }

func (flagsStrategy) Train(frame *Frame, target string, exclude []string) (*FitOutcome, error) {
	return nil, ErrStrategyNotImplemented
}

func (flagsStrategy) Predict(a *Artifact, today map[string]float64) (float64, error) {
	return 0, ErrStrategyNotImplemented
}

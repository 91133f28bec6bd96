package ml

import (
	"errors"
	"testing"
	"time"

	"github.com/yungbote/diary-backend/internal/logger"
)

func newTestManager(t *testing.T) (*PredictorManager, *ModelStore) {
	t.Helper()
	store := newTestStore(t)
	return NewPredictorManager(store, logger.NewNop()), store
}

// trainingFrame has fatigue and nausea observed every day and mood observed
// exactly once, which leaves mood with too few rows for a solvable fit.
func trainingFrame() *Frame {
	fatigue := []float64{2, 1, 3, 2, 4}
	nausea := []float64{1, 2, 3, 4, 5}
	days := []string{"2025-05-10", "2025-05-11", "2025-05-12", "2025-05-13", "2025-05-14"}

	var rows []Observation
	for i, d := range days {
		rows = append(rows,
			Observation{Date: day(d), Key: "fatigue", Value: fatigue[i]},
			Observation{Date: day(d), Key: "nausea", Value: nausea[i]},
		)
	}
	rows = append(rows, Observation{Date: day(days[0]), Key: "mood", Value: 2})
	return BuildFrame(rows)
}

func TestTrainAllBatchIsolation(t *testing.T) {
	manager, _ := newTestManager(t)

	results, err := manager.TrainAll(trainingFrame(), "base")
	if err != nil {
		t.Fatalf("TrainAll failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected one result per target, got %d", len(results))
	}

	byTarget := map[string]TrainResult{}
	for _, r := range results {
		byTarget[r.Target] = r
	}
	if byTarget["fatigue"].Status != StatusTrained {
		t.Fatalf("fatigue: %+v, want trained", byTarget["fatigue"])
	}
	if byTarget["nausea"].Status != StatusTrained {
		t.Fatalf("nausea: %+v, want trained", byTarget["nausea"])
	}
	// mood's failure must be recorded without aborting the siblings.
	if byTarget["mood"].Status != StatusFailed {
		t.Fatalf("mood: %+v, want failed", byTarget["mood"])
	}
	if byTarget["mood"].Reason == "" {
		t.Fatalf("failed target should carry a reason")
	}
}

func TestTrainAllEmptyFrame(t *testing.T) {
	manager, _ := newTestManager(t)
	results, err := manager.TrainAll(BuildFrame(nil), "base")
	if err != nil {
		t.Fatalf("empty table must not be an error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for empty table, got %v", results)
	}
}

func TestTrainAllSkipsTargetWithNoFeatures(t *testing.T) {
	manager, _ := newTestManager(t)
	frame := BuildFrame([]Observation{
		{Date: day("2025-05-10"), Key: "solo", Value: 1},
		{Date: day("2025-05-11"), Key: "solo", Value: 2},
	})

	results, err := manager.TrainAll(frame, "base")
	if err != nil {
		t.Fatalf("TrainAll failed: %v", err)
	}
	if len(results) != 1 || results[0].Status != StatusSkipped {
		t.Fatalf("expected a skipped result, got %+v", results)
	}

	// A skipped target must not leave an artifact behind to predict with.
	if _, ok, err := manager.PredictToday("base", "solo", nil); err != nil || ok {
		t.Fatalf("skipped target should have no prediction, got ok=%v err=%v", ok, err)
	}
}

func TestPredictTodayFeatureOrderRoundTrip(t *testing.T) {
	manager, store := newTestManager(t)

	if _, err := manager.TrainAll(trainingFrame(), "base"); err != nil {
		t.Fatalf("TrainAll failed: %v", err)
	}

	artifact, err := store.Load("base", "fatigue")
	if err != nil {
		t.Fatalf("artifact missing after training: %v", err)
	}

	today := map[string]float64{"mood": 1, "nausea": 3}
	vec := make([]float64, len(artifact.Features))
	for i, feat := range artifact.Features {
		vec[i] = today[feat]
	}
	direct, err := artifact.Model.Predict(vec)
	if err != nil {
		t.Fatalf("direct evaluation failed: %v", err)
	}

	got, ok, err := manager.PredictToday("base", "fatigue", today)
	if err != nil || !ok {
		t.Fatalf("PredictToday failed: ok=%v err=%v", ok, err)
	}
	want := clamp(direct, RatingMin, RatingMax)
	if !almostEqual(got, want) {
		t.Fatalf("PredictToday = %v, direct evaluation = %v", got, want)
	}
}

func TestPredictTodayClamps(t *testing.T) {
	manager, store := newTestManager(t)

	save := func(target string, intercept float64) {
		err := store.Save(&Artifact{
			Strategy:  "base",
			Target:    target,
			Features:  []string{"nausea"},
			Model:     &LinearModel{Coefficients: []float64{1}, Intercept: intercept},
			TrainedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	save("high", 1e9)
	save("low", -1e9)

	got, ok, err := manager.PredictToday("base", "high", map[string]float64{"nausea": 1})
	if err != nil || !ok {
		t.Fatalf("PredictToday failed: ok=%v err=%v", ok, err)
	}
	if got != RatingMax {
		t.Fatalf("huge positive output should clamp to %v, got %v", RatingMax, got)
	}

	got, ok, err = manager.PredictToday("base", "low", map[string]float64{"nausea": 1})
	if err != nil || !ok {
		t.Fatalf("PredictToday failed: ok=%v err=%v", ok, err)
	}
	if got != RatingMin {
		t.Fatalf("huge negative output should clamp to %v, got %v", RatingMin, got)
	}
}

func TestPredictTodayImputationEquivalence(t *testing.T) {
	manager, store := newTestManager(t)
	err := store.Save(&Artifact{
		Strategy:  "base",
		Target:    "fatigue",
		Features:  []string{"nausea", "anxiety"},
		Model:     &LinearModel{Coefficients: []float64{0.5, 0.25}, Intercept: 1},
		TrainedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	explicit, ok, err := manager.PredictToday("base", "fatigue", map[string]float64{"nausea": 2, "anxiety": 0})
	if err != nil || !ok {
		t.Fatalf("PredictToday failed: ok=%v err=%v", ok, err)
	}
	omitted, ok, err := manager.PredictToday("base", "fatigue", map[string]float64{"nausea": 2})
	if err != nil || !ok {
		t.Fatalf("PredictToday failed: ok=%v err=%v", ok, err)
	}
	if !almostEqual(explicit, omitted) {
		t.Fatalf("explicit 0.0 (%v) and omitted key (%v) must predict identically", explicit, omitted)
	}
}

func TestPredictTodayNoArtifact(t *testing.T) {
	manager, _ := newTestManager(t)
	_, ok, err := manager.PredictToday("base", "untrained", map[string]float64{"nausea": 1})
	if err != nil {
		t.Fatalf("missing artifact must degrade, not error: %v", err)
	}
	if ok {
		t.Fatalf("missing artifact should report no prediction available")
	}
}

func TestUnknownStrategyRejected(t *testing.T) {
	manager, _ := newTestManager(t)

	if _, err := manager.TrainAll(trainingFrame(), "quantum"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy from TrainAll, got %v", err)
	}
	if _, _, err := manager.PredictToday("quantum", "fatigue", nil); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy from PredictToday, got %v", err)
	}
}

func TestFlagsStrategyNotImplemented(t *testing.T) {
	manager, _ := newTestManager(t)

	if _, err := manager.TrainAll(trainingFrame(), "flags"); !errors.Is(err, ErrStrategyNotImplemented) {
		t.Fatalf("expected ErrStrategyNotImplemented from TrainAll, got %v", err)
	}
	if _, _, err := manager.PredictToday("flags", "fatigue", nil); !errors.Is(err, ErrStrategyNotImplemented) {
		t.Fatalf("expected ErrStrategyNotImplemented from PredictToday, got %v", err)
	}
}

package ml

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildFramePivot(t *testing.T) {
	rows := []Observation{
		{Date: day("2025-05-11"), Key: "fatigue", Value: 2},
		{Date: day("2025-05-10"), Key: "nausea", Value: 1},
		{Date: day("2025-05-10"), Key: "fatigue", Value: 3},
		{Date: day("2025-05-12"), Key: "anxiety", Value: 4},
	}
	f := BuildFrame(rows)

	if len(f.Dates) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(f.Dates))
	}
	for i := 1; i < len(f.Dates); i++ {
		if !f.Dates[i-1].Before(f.Dates[i]) {
			t.Fatalf("dates not sorted ascending: %v", f.Dates)
		}
	}
	wantCols := []string{"anxiety", "fatigue", "nausea"}
	if len(f.Columns) != len(wantCols) {
		t.Fatalf("expected columns %v, got %v", wantCols, f.Columns)
	}
	for i, c := range wantCols {
		if f.Columns[i] != c {
			t.Fatalf("expected columns %v, got %v", wantCols, f.Columns)
		}
	}

	if v, ok := f.Value(day("2025-05-10"), "fatigue"); !ok || v != 3 {
		t.Fatalf("cell (2025-05-10, fatigue) = %v/%v, want 3/present", v, ok)
	}
	if _, ok := f.Value(day("2025-05-11"), "nausea"); ok {
		t.Fatalf("cell (2025-05-11, nausea) should be missing, not zero")
	}
	if _, ok := f.Value(day("2025-05-13"), "fatigue"); ok {
		t.Fatalf("unknown date should have no cells")
	}
}

func TestBuildFrameEmpty(t *testing.T) {
	f := BuildFrame(nil)
	if !f.IsEmpty() {
		t.Fatalf("frame from zero observations should be empty")
	}
	if len(f.Columns) != 0 {
		t.Fatalf("empty frame should have no columns, got %v", f.Columns)
	}
}

func TestFrameBeforeCutoff(t *testing.T) {
	rows := []Observation{
		{Date: day("2025-05-10"), Key: "fatigue", Value: 1},
		{Date: day("2025-05-11"), Key: "fatigue", Value: 2},
		{Date: day("2025-05-12"), Key: "fatigue", Value: 3},
	}
	f := BuildFrame(rows).Before(day("2025-05-12"))

	if len(f.Dates) != 2 {
		t.Fatalf("expected 2 rows strictly before cutoff, got %d", len(f.Dates))
	}
	if _, ok := f.Value(day("2025-05-12"), "fatigue"); ok {
		t.Fatalf("cutoff date itself must be excluded")
	}
}

func TestTrainingDataDropsMissingTargetAndImputesFeatures(t *testing.T) {
	rows := []Observation{
		{Date: day("2025-05-10"), Key: "fatigue", Value: 3},
		{Date: day("2025-05-10"), Key: "nausea", Value: 1},
		// 05-11 has no fatigue reading, so it must not become a training row.
		{Date: day("2025-05-11"), Key: "nausea", Value: 2},
		// 05-12 has fatigue but no nausea; nausea imputes to 0.
		{Date: day("2025-05-12"), Key: "fatigue", Value: 4},
	}
	f := BuildFrame(rows)

	x, y := f.TrainingData("fatigue", []string{"nausea"})
	if len(x) != 2 || len(y) != 2 {
		t.Fatalf("expected 2 training rows, got x=%d y=%d", len(x), len(y))
	}
	if y[0] != 3 || y[1] != 4 {
		t.Fatalf("unexpected targets: %v", y)
	}
	if x[0][0] != 1 {
		t.Fatalf("observed feature should carry its value, got %v", x[0])
	}
	if x[1][0] != 0 {
		t.Fatalf("missing feature should impute 0.0, got %v", x[1])
	}
}

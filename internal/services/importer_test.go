package services

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/diary-backend/internal/logger"
)

func newImportService(t *testing.T, f *fixture) ImportService {
	t.Helper()
	return NewImportService(f.db, logger.NewNop(), f.entryRepo, f.parameterRepo, f.valueRepo)
}

func TestImportCSVCreatesParametersAndValues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newImportService(t, f)

	csvBody := strings.Join([]string{
		"Date,Fatigue,!!!",
		"2025-05-10,3,1",
		"2025-05-11,2,",
	}, "\n")

	created, updated, err := svc.ImportCSV(ctx, strings.NewReader(csvBody))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if created != 3 || updated != 0 {
		t.Fatalf("expected 3 created / 0 updated, got %d/%d", created, updated)
	}

	params, err := f.parameterRepo.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("list parameters failed: %v", err)
	}
	if len(params) != 2 {
		t.Fatalf("expected 2 auto-created parameters, got %d", len(params))
	}
	keys := map[string]string{}
	for _, p := range params {
		keys[p.Name] = p.Key
	}
	if keys["Fatigue"] != "fatigue" {
		t.Fatalf("expected slugified key for Fatigue, got %q", keys["Fatigue"])
	}
	// An all-symbol display name slugifies to nothing and falls back to a
	// numbered key.
	if keys["!!!"] != "param_1" {
		t.Fatalf("expected param_1 fallback for !!!, got %q", keys["!!!"])
	}

	rows, err := f.valueRepo.ListRows(ctx, nil, false)
	if err != nil {
		t.Fatalf("list rows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 stored values (blank cell skipped), got %d", len(rows))
	}
}

func TestImportCSVUpsertsExistingValues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newImportService(t, f)

	first := "Date,Fatigue\n2025-05-10,3\n"
	if _, _, err := svc.ImportCSV(ctx, strings.NewReader(first)); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	second := "Date,Fatigue\n2025-05-10,4\n"
	created, updated, err := svc.ImportCSV(ctx, strings.NewReader(second))
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if created != 0 || updated != 1 {
		t.Fatalf("expected 0 created / 1 updated, got %d/%d", created, updated)
	}

	rows, err := f.valueRepo.ListRows(ctx, nil, false)
	if err != nil {
		t.Fatalf("list rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Value != 4 {
		t.Fatalf("expected single overwritten value 4, got %+v", rows)
	}
}

func TestImportCSVRejectsSingleColumn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newImportService(t, f)

	if _, _, err := svc.ImportCSV(ctx, strings.NewReader("Date\n2025-05-10\n")); err == nil {
		t.Fatalf("single-column file must be rejected")
	}
}

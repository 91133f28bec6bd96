package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/diary-backend/internal/logger"
)

// ErrModelNotFound means no usable artifact exists for a (strategy, target)
// pair. The prediction path treats it as "no prediction available".
var ErrModelNotFound = errors.New("model artifact not found")

// Artifact is the persisted trained model for one (strategy, target) pair.
// Features holds the exact column order of the fit; prediction rebuilds its
// input vector in this order, so the order is stored rather than recomputed.
type Artifact struct {
	Strategy  string       `json:"strategy"`
	Target    string       `json:"target"`
	Features  []string     `json:"features"`
	Model     *LinearModel `json:"model"`
	TrainedAt time.Time    `json:"trained_at"`
}

// ModelStore keeps one JSON artifact per (strategy, target) on disk, plus a
// human-readable YAML coefficient export alongside each artifact. Concurrent
// retrains race last-writer-wins on the files; retrain is idempotent for the
// same input table so that is acceptable.
type ModelStore struct {
	dir string
	log *logger.Logger
}

func NewModelStore(dir string, baseLog *logger.Logger) (*ModelStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model dir %s: %w", dir, err)
	}
	storeLog := baseLog.With("component", "ModelStore")
	return &ModelStore{dir: dir, log: storeLog}, nil
}

func (s *ModelStore) artifactPath(strategy, target string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s__%s.json", strategy, target))
}

func (s *ModelStore) exportPath(strategy, target string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s__%s.coefficients.yaml", strategy, target))
}

// Save writes the primary artifact and then the coefficient export. A failed
// export is logged and swallowed; only the primary write can fail the save.
func (s *ModelStore) Save(a *Artifact) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact %s/%s: %w", a.Strategy, a.Target, err)
	}
	path := s.artifactPath(a.Strategy, a.Target)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	s.log.Debug("Saved model artifact", "strategy", a.Strategy, "target", a.Target, "features", len(a.Features))

	if err := s.writeExport(a); err != nil {
		s.log.Warn("Failed to write coefficient export", "strategy", a.Strategy, "target", a.Target, "error", err)
	}
	return nil
}

type coefficientRow struct {
	Feature     string  `yaml:"feature"`
	Coefficient float64 `yaml:"coefficient"`
}

type coefficientExport struct {
	Strategy     string           `yaml:"strategy"`
	Target       string           `yaml:"target"`
	Intercept    float64          `yaml:"intercept"`
	Coefficients []coefficientRow `yaml:"coefficients"`
	TrainedAt    time.Time        `yaml:"trained_at"`
}

func (s *ModelStore) writeExport(a *Artifact) error {
	export := coefficientExport{
		Strategy:  a.Strategy,
		Target:    a.Target,
		Intercept: a.Model.Intercept,
		TrainedAt: a.TrainedAt,
	}
	for i, feat := range a.Features {
		export.Coefficients = append(export.Coefficients, coefficientRow{
			Feature:     feat,
			Coefficient: a.Model.Coefficients[i],
		})
	}
	data, err := yaml.Marshal(&export)
	if err != nil {
		return err
	}
	return os.WriteFile(s.exportPath(a.Strategy, a.Target), data, 0o644)
}

// Load reads the artifact for (strategy, target). Missing or corrupt files
// come back as ErrModelNotFound, never as a crash on the prediction path.
func (s *ModelStore) Load(strategy, target string) (*Artifact, error) {
	path := s.artifactPath(strategy, target)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrModelNotFound
		}
		s.log.Warn("Failed to read model artifact", "path", path, "error", err)
		return nil, ErrModelNotFound
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		s.log.Warn("Corrupt model artifact", "path", path, "error", err)
		return nil, ErrModelNotFound
	}
	if a.Model == nil || len(a.Model.Coefficients) != len(a.Features) {
		s.log.Warn("Inconsistent model artifact", "path", path)
		return nil, ErrModelNotFound
	}
	return &a, nil
}

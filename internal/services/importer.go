package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/diary-backend/internal/logger"
	"github.com/yungbote/diary-backend/internal/repos"
	"github.com/yungbote/diary-backend/internal/types"
	"github.com/yungbote/diary-backend/internal/utils"
)

// ImportService bulk-upserts diary history from a tabular upload: first
// column is the date, every remaining column is a parameter display name.
// Unknown parameter names are auto-created with a slugified key.
type ImportService interface {
	ImportCSV(ctx context.Context, r io.Reader) (created, updated int, err error)
}

type importService struct {
	db            *gorm.DB
	log           *logger.Logger
	entryRepo     repos.EntryRepo
	parameterRepo repos.ParameterRepo
	valueRepo     repos.EntryValueRepo
}

func NewImportService(db *gorm.DB, log *logger.Logger, entryRepo repos.EntryRepo, parameterRepo repos.ParameterRepo, valueRepo repos.EntryValueRepo) ImportService {
	serviceLog := log.With("service", "ImportService")
	return &importService{
		db:            db,
		log:           serviceLog,
		entryRepo:     entryRepo,
		parameterRepo: parameterRepo,
		valueRepo:     valueRepo,
	}
}

var importDateFormats = []string{"2006-01-02", "02.01.2006", "2006/01/02"}

func parseImportDate(s string) (time.Time, error) {
	for _, layout := range importDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func (s *importService) ImportCSV(ctx context.Context, r io.Reader) (int, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return 0, 0, fmt.Errorf("file must contain at least two columns: date and parameters")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var created, updated int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paramsByName, takenKeys, err := s.loadParameterCache(ctx, tx)
		if err != nil {
			return err
		}

		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read row: %w", err)
			}

			date, err := parseImportDate(strings.TrimSpace(record[0]))
			if err != nil {
				return err
			}
			entry, _, err := s.entryRepo.GetOrCreateByDate(ctx, tx, date)
			if err != nil {
				return err
			}

			for i := 1; i < len(header) && i < len(record); i++ {
				cell := strings.TrimSpace(record[i])
				if cell == "" {
					continue
				}
				value, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return fmt.Errorf("bad value %q for %q on %s: %w", cell, header[i], record[0], err)
				}

				param, err := s.resolveParameter(ctx, tx, header[i], paramsByName, takenKeys)
				if err != nil {
					return err
				}

				wasCreated, err := s.valueRepo.Upsert(ctx, tx, entry.ID, param.ID, value)
				if err != nil {
					return err
				}
				if wasCreated {
					created++
				} else {
					updated++
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	s.log.Info("Import finished", "created", created, "updated", updated)
	return created, updated, nil
}

func (s *importService) loadParameterCache(ctx context.Context, tx *gorm.DB) (map[string]*types.Parameter, map[string]struct{}, error) {
	params, err := s.parameterRepo.ListAll(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	byName := make(map[string]*types.Parameter, len(params))
	keys := make(map[string]struct{}, len(params))
	for _, p := range params {
		byName[strings.TrimSpace(p.Name)] = p
		keys[p.Key] = struct{}{}
	}
	return byName, keys, nil
}

func (s *importService) resolveParameter(ctx context.Context, tx *gorm.DB, name string, byName map[string]*types.Parameter, takenKeys map[string]struct{}) (*types.Parameter, error) {
	if p, ok := byName[name]; ok {
		return p, nil
	}
	key := utils.DeriveParameterKey(name, takenKeys)
	p, err := s.parameterRepo.Create(ctx, tx, &types.Parameter{Key: key, Name: name, IsActive: true})
	if err != nil {
		return nil, err
	}
	byName[name] = p
	takenKeys[key] = struct{}{}
	return p, nil
}

package consumption

import (
	"context"
	"fmt"
	"strings"

	"github.com/cantera-ops/cantera/internal/platform/httpx"
)

// Service validates and coordinates consumption writes.
type Service struct {
	repo Repository
}

// NewService builds the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the full consumption collection.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

// Create validates and appends one reading.
func (s *Service) Create(ctx context.Context, rec Record) (Record, error) {
	rec.Equipment = strings.TrimSpace(rec.Equipment)
	if err := validate(rec); err != nil {
		return Record{}, err
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ReplaceAll overwrites the whole collection after validating every row.
func (s *Service) ReplaceAll(ctx context.Context, records []Record) error {
	for i := range records {
		records[i].Equipment = strings.TrimSpace(records[i].Equipment)
		if err := validate(records[i]); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return s.repo.ReplaceAll(ctx, records)
}

func validate(rec Record) error {
	if rec.Equipment == "" {
		return fmt.Errorf("%w: equipment code is required", httpx.ErrValidation)
	}
	if rec.Litres < 0 || rec.Hours < 0 || rec.Distance < 0 {
		return fmt.Errorf("%w: litres, hours and distance must not be negative", httpx.ErrValidation)
	}
	return nil
}

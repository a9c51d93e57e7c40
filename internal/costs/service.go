package costs

import (
	"context"
	"fmt"
	"strings"

	"github.com/cantera-ops/cantera/internal/platform/httpx"
)

// Service validates and coordinates expense writes.
type Service struct {
	repo Repository
}

// NewService builds the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one whole expense collection.
func (s *Service) List(ctx context.Context, kind Kind) ([]Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown cost collection %q", httpx.ErrValidation, kind)
	}
	return s.repo.List(ctx, kind)
}

// Create validates and appends one expense row.
func (s *Service) Create(ctx context.Context, kind Kind, rec Record) (Record, error) {
	if !kind.Valid() {
		return Record{}, fmt.Errorf("%w: unknown cost collection %q", httpx.ErrValidation, kind)
	}
	rec = normalise(kind, rec)
	if err := validate(rec); err != nil {
		return Record{}, err
	}
	if err := s.repo.Append(ctx, kind, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ReplaceAll overwrites one whole expense collection.
func (s *Service) ReplaceAll(ctx context.Context, kind Kind, records []Record) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown cost collection %q", httpx.ErrValidation, kind)
	}
	for i := range records {
		records[i] = normalise(kind, records[i])
		if err := validate(records[i]); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return s.repo.ReplaceAll(ctx, kind, records)
}

func normalise(kind Kind, rec Record) Record {
	rec.Equipment = strings.TrimSpace(rec.Equipment)
	rec.Type = strings.TrimSpace(rec.Type)
	if kind == KindSalary {
		rec.Type = ""
		rec.Description = ""
	}
	return rec
}

func validate(rec Record) error {
	if rec.Equipment == "" {
		return fmt.Errorf("%w: equipment code is required", httpx.ErrValidation)
	}
	if rec.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", httpx.ErrValidation)
	}
	return nil
}

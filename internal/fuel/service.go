package fuel

import (
	"context"
	"fmt"

	"github.com/cantera-ops/cantera/internal/platform/httpx"
)

// Service validates and coordinates fuel price writes.
type Service struct {
	repo Repository
}

// NewService builds the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the full price history in insertion order.
func (s *Service) List(ctx context.Context) ([]PriceRecord, error) {
	return s.repo.List(ctx)
}

// Create validates and appends one price record.
func (s *Service) Create(ctx context.Context, rec PriceRecord) (PriceRecord, error) {
	if err := validate(rec); err != nil {
		return PriceRecord{}, err
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		return PriceRecord{}, err
	}
	return rec, nil
}

// ReplaceAll overwrites the whole price history.
func (s *Service) ReplaceAll(ctx context.Context, records []PriceRecord) error {
	for i, rec := range records {
		if err := validate(rec); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return s.repo.ReplaceAll(ctx, records)
}

func validate(rec PriceRecord) error {
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: price date is required", httpx.ErrValidation)
	}
	if rec.Price <= 0 {
		return fmt.Errorf("%w: price per litre must be greater than zero", httpx.ErrValidation)
	}
	return nil
}

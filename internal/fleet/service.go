package fleet

import (
	"context"
	"fmt"
	"strings"

	"github.com/cantera-ops/cantera/internal/platform/db"
	"github.com/cantera-ops/cantera/internal/platform/httpx"
	"github.com/cantera-ops/cantera/internal/shared"
)

// Service validates and coordinates fleet and equipment writes.
type Service struct {
	repo Repository
	ids  shared.IDAllocator
}

// NewService builds the service.
func NewService(repo Repository, ids shared.IDAllocator) *Service {
	return &Service{repo: repo, ids: ids}
}

// ListFleets returns all fleets.
func (s *Service) ListFleets(ctx context.Context) ([]Fleet, error) {
	return s.repo.ListFleets(ctx)
}

// CreateFleet allocates an id and stores a new fleet.
func (s *Service) CreateFleet(ctx context.Context, name string) (Fleet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Fleet{}, fmt.Errorf("%w: fleet name is required", httpx.ErrValidation)
	}
	existing, err := s.repo.ListFleets(ctx)
	if err != nil {
		return Fleet{}, err
	}
	for _, f := range existing {
		if strings.EqualFold(f.Name, name) {
			return Fleet{}, fmt.Errorf("%w: fleet name %q already exists", httpx.ErrDuplicate, name)
		}
	}
	f := Fleet{ID: s.ids.NextID(), Name: name}
	if err := s.repo.CreateFleet(ctx, f); err != nil {
		if db.IsUniqueViolation(err) {
			return Fleet{}, fmt.Errorf("%w: fleet %s", httpx.ErrDuplicate, f.ID)
		}
		return Fleet{}, err
	}
	return f, nil
}

// ReplaceFleets overwrites the whole fleet collection after validating it.
func (s *Service) ReplaceFleets(ctx context.Context, fleets []Fleet) error {
	seenID := make(map[string]bool, len(fleets))
	seenName := make(map[string]bool, len(fleets))
	for i, f := range fleets {
		if strings.TrimSpace(f.ID) == "" {
			return fmt.Errorf("%w: row %d: fleet id is required", httpx.ErrValidation, i+1)
		}
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%w: row %d: fleet name is required", httpx.ErrValidation, i+1)
		}
		if seenID[f.ID] {
			return fmt.Errorf("%w: duplicate fleet id %s", httpx.ErrDuplicate, f.ID)
		}
		nameKey := strings.ToLower(strings.TrimSpace(f.Name))
		if seenName[nameKey] {
			return fmt.Errorf("%w: duplicate fleet name %q", httpx.ErrDuplicate, f.Name)
		}
		seenID[f.ID] = true
		seenName[nameKey] = true
	}
	return s.repo.ReplaceFleets(ctx, fleets)
}

// ListEquipment returns all equipment units.
func (s *Service) ListEquipment(ctx context.Context) ([]Equipment, error) {
	return s.repo.ListEquipment(ctx)
}

// CreateEquipment stores a new equipment unit keyed by its internal code.
func (s *Service) CreateEquipment(ctx context.Context, e Equipment) (Equipment, error) {
	e.Code = strings.TrimSpace(e.Code)
	if e.Code == "" {
		return Equipment{}, fmt.Errorf("%w: equipment code is required", httpx.ErrValidation)
	}
	if e.FleetID != nil && *e.FleetID == "" {
		e.FleetID = nil
	}
	if err := s.repo.CreateEquipment(ctx, e); err != nil {
		if db.IsUniqueViolation(err) {
			return Equipment{}, fmt.Errorf("%w: equipment code %s", httpx.ErrDuplicate, e.Code)
		}
		return Equipment{}, err
	}
	return e, nil
}

// ReplaceEquipment overwrites the whole equipment collection.
func (s *Service) ReplaceEquipment(ctx context.Context, units []Equipment) error {
	seen := make(map[string]bool, len(units))
	for i := range units {
		units[i].Code = strings.TrimSpace(units[i].Code)
		if units[i].Code == "" {
			return fmt.Errorf("%w: row %d: equipment code is required", httpx.ErrValidation, i+1)
		}
		if seen[units[i].Code] {
			return fmt.Errorf("%w: duplicate equipment code %s", httpx.ErrDuplicate, units[i].Code)
		}
		seen[units[i].Code] = true
		if units[i].FleetID != nil && *units[i].FleetID == "" {
			units[i].FleetID = nil
		}
	}
	return s.repo.ReplaceEquipment(ctx, units)
}

package materials

import (
	"context"
	"fmt"
	"strings"

	"github.com/cantera-ops/cantera/internal/platform/db"
	"github.com/cantera-ops/cantera/internal/platform/httpx"
	"github.com/cantera-ops/cantera/internal/shared"
)

// Service validates and coordinates materials writes. New purchase and
// allocation ids come from the allocator so id generation stays out of
// report and UI code.
type Service struct {
	repo Repository
	ids  shared.IDAllocator
}

// NewService builds the service.
func NewService(repo Repository, ids shared.IDAllocator) *Service {
	return &Service{repo: repo, ids: ids}
}

// ListProjects returns all projects.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	return s.repo.ListProjects(ctx)
}

// CreateProject allocates an id and stores a new project.
func (s *Service) CreateProject(ctx context.Context, name, responsible string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: project name is required", httpx.ErrValidation)
	}
	p := Project{ID: s.ids.NextID(), Name: name, Responsible: strings.TrimSpace(responsible)}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return Project{}, fmt.Errorf("%w: project %s", httpx.ErrDuplicate, p.ID)
		}
		return Project{}, err
	}
	return p, nil
}

// ReplaceProjects overwrites the whole project collection.
func (s *Service) ReplaceProjects(ctx context.Context, projects []Project) error {
	seen := make(map[string]bool, len(projects))
	for i, p := range projects {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("%w: row %d: project id is required", httpx.ErrValidation, i+1)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: row %d: project name is required", httpx.ErrValidation, i+1)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate project id %s", httpx.ErrDuplicate, p.ID)
		}
		seen[p.ID] = true
	}
	return s.repo.ReplaceProjects(ctx, projects)
}

// ListBudget returns all budget lines with derived costs.
func (s *Service) ListBudget(ctx context.Context) ([]BudgetLine, error) {
	return s.repo.ListBudget(ctx)
}

// ReplaceBudget overwrites the whole budget collection.
func (s *Service) ReplaceBudget(ctx context.Context, lines []BudgetLine) error {
	for i, line := range lines {
		if strings.TrimSpace(line.Material) == "" {
			return fmt.Errorf("%w: row %d: material name is required", httpx.ErrValidation, i+1)
		}
		if line.Quantity < 0 || line.UnitPrice < 0 {
			return fmt.Errorf("%w: row %d: quantity and unit price must not be negative", httpx.ErrValidation, i+1)
		}
	}
	return s.repo.ReplaceBudget(ctx, lines)
}

// ListPurchases returns all purchases with derived costs.
func (s *Service) ListPurchases(ctx context.Context) ([]PurchaseRecord, error) {
	return s.repo.ListPurchases(ctx)
}

// CreatePurchase allocates an id and stores a new purchase.
func (s *Service) CreatePurchase(ctx context.Context, rec PurchaseRecord) (PurchaseRecord, error) {
	if err := validateLine(rec.Material, rec.Quantity, rec.UnitPrice); err != nil {
		return PurchaseRecord{}, err
	}
	rec.ID = s.ids.NextID()
	rec.Cost = LineCost(rec.Quantity, rec.UnitPrice)
	if err := s.repo.CreatePurchase(ctx, rec); err != nil {
		if db.IsUniqueViolation(err) {
			return PurchaseRecord{}, fmt.Errorf("%w: purchase %s", httpx.ErrDuplicate, rec.ID)
		}
		return PurchaseRecord{}, err
	}
	return rec, nil
}

// ReplacePurchases overwrites the whole purchase collection.
func (s *Service) ReplacePurchases(ctx context.Context, records []PurchaseRecord) error {
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.ID) == "" {
			return fmt.Errorf("%w: row %d: purchase id is required", httpx.ErrValidation, i+1)
		}
		if seen[rec.ID] {
			return fmt.Errorf("%w: duplicate purchase id %s", httpx.ErrDuplicate, rec.ID)
		}
		seen[rec.ID] = true
		if err := validateLine(rec.Material, rec.Quantity, rec.UnitPrice); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return s.repo.ReplacePurchases(ctx, records)
}

// ListAllocations returns all allocations with derived costs.
func (s *Service) ListAllocations(ctx context.Context) ([]AllocationRecord, error) {
	return s.repo.ListAllocations(ctx)
}

// CreateAllocation allocates an id and stores a new allocation.
func (s *Service) CreateAllocation(ctx context.Context, rec AllocationRecord) (AllocationRecord, error) {
	if err := validateLine(rec.Material, rec.Quantity, rec.UnitPrice); err != nil {
		return AllocationRecord{}, err
	}
	rec.ID = s.ids.NextID()
	rec.Cost = LineCost(rec.Quantity, rec.UnitPrice)
	if err := s.repo.CreateAllocation(ctx, rec); err != nil {
		if db.IsUniqueViolation(err) {
			return AllocationRecord{}, fmt.Errorf("%w: allocation %s", httpx.ErrDuplicate, rec.ID)
		}
		return AllocationRecord{}, err
	}
	return rec, nil
}

// ReplaceAllocations overwrites the whole allocation collection.
func (s *Service) ReplaceAllocations(ctx context.Context, records []AllocationRecord) error {
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.ID) == "" {
			return fmt.Errorf("%w: row %d: allocation id is required", httpx.ErrValidation, i+1)
		}
		if seen[rec.ID] {
			return fmt.Errorf("%w: duplicate allocation id %s", httpx.ErrDuplicate, rec.ID)
		}
		seen[rec.ID] = true
		if err := validateLine(rec.Material, rec.Quantity, rec.UnitPrice); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return s.repo.ReplaceAllocations(ctx, records)
}

func validateLine(material string, quantity, unitPrice float64) error {
	if strings.TrimSpace(material) == "" {
		return fmt.Errorf("%w: material name is required", httpx.ErrValidation)
	}
	if quantity < 0 || unitPrice < 0 {
		return fmt.Errorf("%w: quantity and unit price must not be negative", httpx.ErrValidation)
	}
	return nil
}

package materials

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantera-ops/cantera/internal/platform/httpx"
)

type mockRepository struct {
	projects    []Project
	budget      []BudgetLine
	purchases   []PurchaseRecord
	allocations []AllocationRecord
}

func (m *mockRepository) ListProjects(ctx context.Context) ([]Project, error) {
	return m.projects, nil
}

func (m *mockRepository) CreateProject(ctx context.Context, p Project) error {
	m.projects = append(m.projects, p)
	return nil
}

func (m *mockRepository) ReplaceProjects(ctx context.Context, projects []Project) error {
	m.projects = projects
	return nil
}

func (m *mockRepository) ListBudget(ctx context.Context) ([]BudgetLine, error) {
	return CostBudget(m.budget), nil
}

func (m *mockRepository) ReplaceBudget(ctx context.Context, lines []BudgetLine) error {
	m.budget = lines
	return nil
}

func (m *mockRepository) ListPurchases(ctx context.Context) ([]PurchaseRecord, error) {
	return CostPurchases(m.purchases), nil
}

func (m *mockRepository) CreatePurchase(ctx context.Context, rec PurchaseRecord) error {
	m.purchases = append(m.purchases, rec)
	return nil
}

func (m *mockRepository) ReplacePurchases(ctx context.Context, records []PurchaseRecord) error {
	m.purchases = records
	return nil
}

func (m *mockRepository) ListAllocations(ctx context.Context) ([]AllocationRecord, error) {
	return CostAllocations(m.allocations), nil
}

func (m *mockRepository) CreateAllocation(ctx context.Context, rec AllocationRecord) error {
	m.allocations = append(m.allocations, rec)
	return nil
}

func (m *mockRepository) ReplaceAllocations(ctx context.Context, records []AllocationRecord) error {
	m.allocations = records
	return nil
}

type sequenceAllocator struct{ n int }

func (s *sequenceAllocator) NextID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func TestCreatePurchaseAllocatesIDAndDerivesCost(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, &sequenceAllocator{})

	created, err := svc.CreatePurchase(context.Background(), PurchaseRecord{
		Material:  "cement",
		Quantity:  40,
		UnitPrice: 2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, 100.0, created.Cost)
}

func TestCreatePurchaseRequiresMaterial(t *testing.T) {
	svc := NewService(&mockRepository{}, &sequenceAllocator{})

	_, err := svc.CreatePurchase(context.Background(), PurchaseRecord{Quantity: 1, UnitPrice: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestReplaceAllocationsRejectsDuplicateIDs(t *testing.T) {
	repo := &mockRepository{allocations: []AllocationRecord{{ID: "keep", Material: "sand", Quantity: 1, UnitPrice: 1}}}
	svc := NewService(repo, &sequenceAllocator{})

	err := svc.ReplaceAllocations(context.Background(), []AllocationRecord{
		{ID: "a1", Material: "sand", Quantity: 1, UnitPrice: 2},
		{ID: "a1", Material: "gravel", Quantity: 2, UnitPrice: 3},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrDuplicate))
	// Rejected saves leave the stored collection untouched.
	require.Len(t, repo.allocations, 1)
	assert.Equal(t, "keep", repo.allocations[0].ID)
}

func TestReplaceBudgetRejectsNegativeQuantity(t *testing.T) {
	svc := NewService(&mockRepository{}, &sequenceAllocator{})

	err := svc.ReplaceBudget(context.Background(), []BudgetLine{
		{ProjectID: "p1", Material: "cement", Quantity: -5, UnitPrice: 2},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestListBudgetRecomputesCost(t *testing.T) {
	repo := &mockRepository{budget: []BudgetLine{
		{ProjectID: "p1", Material: "cement", Quantity: 10, UnitPrice: 3, Cost: 12345},
	}}
	svc := NewService(repo, &sequenceAllocator{})

	lines, err := svc.ListBudget(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 30.0, lines[0].Cost)
}

package fleet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantera-ops/cantera/internal/platform/httpx"
)

type mockRepository struct {
	fleets    []Fleet
	equipment []Equipment

	replaceErr error
}

func (m *mockRepository) ListFleets(ctx context.Context) ([]Fleet, error) {
	return m.fleets, nil
}

func (m *mockRepository) CreateFleet(ctx context.Context, f Fleet) error {
	m.fleets = append(m.fleets, f)
	return nil
}

func (m *mockRepository) ReplaceFleets(ctx context.Context, fleets []Fleet) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.fleets = fleets
	return nil
}

func (m *mockRepository) ListEquipment(ctx context.Context) ([]Equipment, error) {
	return m.equipment, nil
}

func (m *mockRepository) CreateEquipment(ctx context.Context, e Equipment) error {
	m.equipment = append(m.equipment, e)
	return nil
}

func (m *mockRepository) ReplaceEquipment(ctx context.Context, units []Equipment) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.equipment = units
	return nil
}

type sequenceAllocator struct{ n int }

func (s *sequenceAllocator) NextID() string {
	s.n++
	return string(rune('A' + s.n - 1))
}

func TestCreateFleetRejectsDuplicateName(t *testing.T) {
	repo := &mockRepository{fleets: []Fleet{{ID: "1", Name: "Norte"}}}
	svc := NewService(repo, &sequenceAllocator{})

	_, err := svc.CreateFleet(context.Background(), "norte")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrDuplicate))
}

func TestCreateFleetRequiresName(t *testing.T) {
	svc := NewService(&mockRepository{}, &sequenceAllocator{})

	_, err := svc.CreateFleet(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestReplaceFleetsValidatesBeforeWriting(t *testing.T) {
	repo := &mockRepository{fleets: []Fleet{{ID: "1", Name: "Norte"}}}
	svc := NewService(repo, &sequenceAllocator{})

	err := svc.ReplaceFleets(context.Background(), []Fleet{
		{ID: "a", Name: "Sur"},
		{ID: "a", Name: "Este"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrDuplicate))
	// Failed validation must leave the stored collection untouched.
	assert.Equal(t, []Fleet{{ID: "1", Name: "Norte"}}, repo.fleets)
}

func TestReplaceEquipmentNormalisesEmptyFleetRef(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, &sequenceAllocator{})

	empty := ""
	err := svc.ReplaceEquipment(context.Background(), []Equipment{
		{Code: " EQ-01 ", Plate: "AB123", FleetID: &empty},
	})
	require.NoError(t, err)
	require.Len(t, repo.equipment, 1)
	assert.Equal(t, "EQ-01", repo.equipment[0].Code)
	assert.Nil(t, repo.equipment[0].FleetID)
}

func TestCreateEquipmentRequiresCode(t *testing.T) {
	svc := NewService(&mockRepository{}, &sequenceAllocator{})

	_, err := svc.CreateEquipment(context.Background(), Equipment{Plate: "AB123"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantera-ops/cantera/internal/consumption"
	"github.com/cantera-ops/cantera/internal/costs"
	"github.com/cantera-ops/cantera/internal/fleet"
	"github.com/cantera-ops/cantera/internal/fuel"
	"github.com/cantera-ops/cantera/internal/materials"
	"github.com/cantera-ops/cantera/internal/platform/httpx"
)

type fixtureSource struct {
	consumption []consumption.Record
	costs       map[costs.Kind][]costs.Record
	prices      []fuel.PriceRecord
	equipment   []fleet.Equipment
	fleets      []fleet.Fleet
	projects    []materials.Project
	budget      []materials.BudgetLine
	purchases   []materials.PurchaseRecord
	allocations []materials.AllocationRecord

	consumptionCalls int
}

func (f *fixtureSource) Consumption(context.Context) ([]consumption.Record, error) {
	f.consumptionCalls++
	return f.consumption, nil
}

func (f *fixtureSource) Costs(_ context.Context, kind costs.Kind) ([]costs.Record, error) {
	return f.costs[kind], nil
}

func (f *fixtureSource) FuelPrices(context.Context) ([]fuel.PriceRecord, error) {
	return f.prices, nil
}

func (f *fixtureSource) Equipment(context.Context) ([]fleet.Equipment, error) {
	return f.equipment, nil
}

func (f *fixtureSource) Fleets(context.Context) ([]fleet.Fleet, error) {
	return f.fleets, nil
}

func (f *fixtureSource) Projects(context.Context) ([]materials.Project, error) {
	return f.projects, nil
}

func (f *fixtureSource) Budget(context.Context) ([]materials.BudgetLine, error) {
	return f.budget, nil
}

func (f *fixtureSource) Purchases(context.Context) ([]materials.PurchaseRecord, error) {
	return f.purchases, nil
}

func (f *fixtureSource) Allocations(context.Context) ([]materials.AllocationRecord, error) {
	return f.allocations, nil
}

type memorySnapshots struct {
	nextID    int64
	snapshots map[int64]*Snapshot
	payloads  map[int64][]byte
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{snapshots: make(map[int64]*Snapshot), payloads: make(map[int64][]byte)}
}

func (m *memorySnapshots) InsertSnapshot(_ context.Context, kind SnapshotKind, params SnapshotParams) (Snapshot, error) {
	m.nextID++
	snap := Snapshot{ID: m.nextID, Kind: kind, Params: params, Status: SnapshotPending, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.snapshots[snap.ID] = &snap
	return snap, nil
}

func (m *memorySnapshots) GetSnapshot(_ context.Context, id int64) (Snapshot, error) {
	snap, ok := m.snapshots[id]
	if !ok {
		return Snapshot{}, ErrUnknownSnapshot
	}
	return *snap, nil
}

func (m *memorySnapshots) ListSnapshots(_ context.Context, limit int) ([]Snapshot, error) {
	out := make([]Snapshot, 0, len(m.snapshots))
	for _, snap := range m.snapshots {
		out = append(out, *snap)
	}
	return out, nil
}

func (m *memorySnapshots) UpdateStatus(_ context.Context, id int64, status SnapshotStatus) error {
	snap, ok := m.snapshots[id]
	if !ok {
		return ErrUnknownSnapshot
	}
	snap.Status = status
	return nil
}

func (m *memorySnapshots) SavePayload(_ context.Context, id int64, payload any, errMsg string) error {
	snap, ok := m.snapshots[id]
	if !ok {
		return ErrUnknownSnapshot
	}
	snap.Error = errMsg
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.payloads[id] = raw
	return nil
}

func (m *memorySnapshots) LoadPayload(_ context.Context, id int64) ([]byte, error) {
	raw, ok := m.payloads[id]
	if !ok {
		return nil, ErrUnknownSnapshot
	}
	return raw, nil
}

func fixture(t *testing.T) *fixtureSource {
	t.Helper()
	return &fixtureSource{
		consumption: []consumption.Record{
			{Equipment: "EQ-01", Date: date(t, "2024-01-10"), Litres: 100, Hours: 8},
			{Equipment: "EQ-01", Date: date(t, "2024-02-10"), Litres: 150, Hours: 10},
		},
		costs: map[costs.Kind][]costs.Record{
			costs.KindSalary: {
				{Equipment: "EQ-01", Date: date(t, "2024-01-15"), Amount: 40},
				{Equipment: "EQ-01", Date: date(t, "2024-02-15"), Amount: 60},
			},
		},
		prices: []fuel.PriceRecord{{Date: date(t, "2024-01-01"), Price: 0.6}},
		equipment: []fleet.Equipment{{Code: "EQ-01", Plate: "AB123"}},
		projects: []materials.Project{{ID: "p1", Name: "North bypass", Responsible: "R. Ortega"}},
		budget: []materials.BudgetLine{
			{ProjectID: "p1", Material: "cement", Quantity: 100, UnitPrice: 10},
		},
		allocations: []materials.AllocationRecord{
			{ProjectID: "p1", Material: "cement", Quantity: 80, UnitPrice: 12},
		},
		purchases: []materials.PurchaseRecord{
			{Material: "cement", Quantity: 120, UnitPrice: 10},
		},
	}
}

func newTestService(t *testing.T, source Source) (*Service, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)
	svc := NewService(source, newMemorySnapshots(), cache, nil, nil, nil)
	return svc, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestEquipmentPeriodCaches(t *testing.T) {
	src := fixture(t)
	svc, cleanup := newTestService(t, src)
	defer cleanup()

	ctx := context.Background()
	first, err := svc.EquipmentPeriod(ctx, date(t, "2024-01-01"), date(t, "2024-01-31"))
	require.NoError(t, err)
	require.Len(t, first.Rows, 1)
	assert.Equal(t, 60.0, first.Rows[0].FuelCost)
	assert.Equal(t, 40.0, first.Rows[0].SalaryCost)

	second, err := svc.EquipmentPeriod(ctx, date(t, "2024-01-01"), date(t, "2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.consumptionCalls, "second call should hit the cache")
}

func TestInvalidateCacheForcesRecompute(t *testing.T) {
	src := fixture(t)
	svc, cleanup := newTestService(t, src)
	defer cleanup()

	ctx := context.Background()
	_, err := svc.EquipmentPeriod(ctx, date(t, "2024-01-01"), date(t, "2024-01-31"))
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateCache(ctx))
	_, err = svc.EquipmentPeriod(ctx, date(t, "2024-01-01"), date(t, "2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, 2, src.consumptionCalls)
}

func TestEquipmentPeriodRejectsBadPeriod(t *testing.T) {
	svc, cleanup := newTestService(t, fixture(t))
	defer cleanup()

	_, err := svc.EquipmentPeriod(context.Background(), date(t, "2024-02-01"), date(t, "2024-01-01"))
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestComparePeriods(t *testing.T) {
	svc, cleanup := newTestService(t, fixture(t))
	defer cleanup()

	cmp, err := svc.ComparePeriods(context.Background(), SnapshotParams{
		BaseFrom:    date(t, "2024-01-01"),
		BaseTo:      date(t, "2024-01-31"),
		CompareFrom: date(t, "2024-02-01"),
		CompareTo:   date(t, "2024-02-29"),
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, cmp.Base.Totals.Total)
	assert.Equal(t, 150.0, cmp.Compare.Totals.Total)
	assert.True(t, cmp.Comparison.Significant)
	assert.Equal(t, 50.0, cmp.Comparison.TotalDelta)
}

func TestProjectMaterialsNotFound(t *testing.T) {
	svc, cleanup := newTestService(t, fixture(t))
	defer cleanup()

	_, err := svc.ProjectMaterials(context.Background(), "missing")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestProjectMaterials(t *testing.T) {
	svc, cleanup := newTestService(t, fixture(t))
	defer cleanup()

	cmp, err := svc.ProjectMaterials(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "North bypass", cmp.Report.ProjectName)
	require.Len(t, cmp.Report.Rows, 1)
	assert.Equal(t, 1000.0, cmp.Report.BudgetTotal)
	assert.Equal(t, 960.0, cmp.Report.AllocatedTotal)
	assert.Equal(t, -40.0, cmp.Comparison.TotalDelta)
}

func TestPurchaseSummary(t *testing.T) {
	svc, cleanup := newTestService(t, fixture(t))
	defer cleanup()

	rows, err := svc.PurchaseSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1200.0, rows[0].PurchasedCost)
	assert.Equal(t, 960.0, rows[0].AllocatedCost)
}

func TestSnapshotLifecycle(t *testing.T) {
	svc, cleanup := newTestService(t, fixture(t))
	defer cleanup()

	ctx := context.Background()
	snap, err := svc.TriggerSnapshot(ctx, SnapshotEquipmentCompare, SnapshotParams{
		BaseFrom:    date(t, "2024-01-01"),
		BaseTo:      date(t, "2024-01-31"),
		CompareFrom: date(t, "2024-02-01"),
		CompareTo:   date(t, "2024-02-29"),
	})
	require.NoError(t, err)
	assert.Equal(t, SnapshotPending, snap.Status)

	_, err = svc.LoadSnapshotResult(ctx, snap.ID)
	assert.ErrorIs(t, err, httpx.ErrPrecondition, "payload unavailable before processing")

	require.NoError(t, svc.ProcessSnapshot(ctx, snap.ID))

	processed, err := svc.GetSnapshot(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, SnapshotReady, processed.Status)

	payload, err := svc.LoadSnapshotResult(ctx, snap.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}

func TestSnapshotValidation(t *testing.T) {
	svc, cleanup := newTestService(t, fixture(t))
	defer cleanup()

	_, err := svc.TriggerSnapshot(context.Background(), SnapshotProjectMaterials, SnapshotParams{})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestProcessSnapshotUnknownID(t *testing.T) {
	svc, cleanup := newTestService(t, fixture(t))
	defer cleanup()

	err := svc.ProcessSnapshot(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUnknownSnapshot)
}

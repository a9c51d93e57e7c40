package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cantera-ops/cantera/internal/costs"
	"github.com/cantera-ops/cantera/internal/fleet"
	"github.com/cantera-ops/cantera/internal/fuel"
	"github.com/cantera-ops/cantera/internal/materials"
	"github.com/cantera-ops/cantera/internal/observability"
	"github.com/cantera-ops/cantera/internal/platform/httpx"
	"github.com/cantera-ops/cantera/internal/shared"

	consumptiondomain "github.com/cantera-ops/cantera/internal/consumption"
)

// Source exposes the collections a report draws from. The app wires the
// domain services behind it; tests substitute fixtures.
type Source interface {
	Consumption(ctx context.Context) ([]consumptiondomain.Record, error)
	Costs(ctx context.Context, kind costs.Kind) ([]costs.Record, error)
	FuelPrices(ctx context.Context) ([]fuel.PriceRecord, error)
	Equipment(ctx context.Context) ([]fleet.Equipment, error)
	Fleets(ctx context.Context) ([]fleet.Fleet, error)
	Projects(ctx context.Context) ([]materials.Project, error)
	Budget(ctx context.Context) ([]materials.BudgetLine, error)
	Purchases(ctx context.Context) ([]materials.PurchaseRecord, error)
	Allocations(ctx context.Context) ([]materials.AllocationRecord, error)
}

// Enqueuer submits snapshot processing to the background queue.
type Enqueuer interface {
	EnqueueSnapshot(ctx context.Context, snapshotID int64) error
}

// Service computes reports over the source collections, caching results and
// delegating snapshot processing to the worker.
type Service struct {
	source    Source
	snapshots SnapshotRepository
	cache     *Cache
	enqueuer  Enqueuer
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewService builds the report service. Cache, enqueuer and metrics are
// optional; a nil cache computes every report on demand.
func NewService(source Source, snapshots SnapshotRepository, cache *Cache, enqueuer Enqueuer, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:    source,
		snapshots: snapshots,
		cache:     cache,
		enqueuer:  enqueuer,
		metrics:   metrics,
		logger:    logger,
	}
}

// loadInputs gathers every equipment-side collection concurrently.
func (s *Service) loadInputs(ctx context.Context) (Inputs, error) {
	var in Inputs
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Consumption, err = s.source.Consumption(ctx)
		return err
	})
	g.Go(func() (err error) {
		in.Salary, err = s.source.Costs(ctx, costs.KindSalary)
		return err
	})
	g.Go(func() (err error) {
		in.Fixed, err = s.source.Costs(ctx, costs.KindFixed)
		return err
	})
	g.Go(func() (err error) {
		in.Maintenance, err = s.source.Costs(ctx, costs.KindMaintenance)
		return err
	})
	g.Go(func() (err error) {
		in.Prices, err = s.source.FuelPrices(ctx)
		return err
	})
	g.Go(func() (err error) {
		in.Equipment, err = s.source.Equipment(ctx)
		return err
	})
	g.Go(func() (err error) {
		in.Fleets, err = s.source.Fleets(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}
	return in, nil
}

// EquipmentPeriod produces the per-equipment cost table for one period.
func (s *Service) EquipmentPeriod(ctx context.Context, from, to shared.Date) (PeriodReport, error) {
	if err := ValidatePeriod(from, to); err != nil {
		return PeriodReport{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	var rep PeriodReport
	err := s.fetch(ctx, keyPeriod(from, to), &rep, func(ctx context.Context) (interface{}, error) {
		return s.computePeriod(ctx, from, to)
	})
	if err != nil {
		return PeriodReport{}, err
	}
	s.reportGenerated("period")
	return rep, nil
}

func (s *Service) computePeriod(ctx context.Context, from, to shared.Date) (PeriodReport, error) {
	in, err := s.loadInputs(ctx)
	if err != nil {
		return PeriodReport{}, err
	}
	return Aggregate(from, to, in)
}

// ComparePeriods aggregates two periods and decomposes the difference.
func (s *Service) ComparePeriods(ctx context.Context, params SnapshotParams) (PeriodComparison, error) {
	if err := params.Validate(SnapshotEquipmentCompare); err != nil {
		return PeriodComparison{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	var cmp PeriodComparison
	err := s.fetch(ctx, keyCompare(params), &cmp, func(ctx context.Context) (interface{}, error) {
		return s.computeComparison(ctx, params)
	})
	if err != nil {
		return PeriodComparison{}, err
	}
	s.reportGenerated("compare")
	return cmp, nil
}

func (s *Service) computeComparison(ctx context.Context, params SnapshotParams) (PeriodComparison, error) {
	in, err := s.loadInputs(ctx)
	if err != nil {
		return PeriodComparison{}, err
	}
	base, err := Aggregate(params.BaseFrom, params.BaseTo, in)
	if err != nil {
		return PeriodComparison{}, err
	}
	compare, err := Aggregate(params.CompareFrom, params.CompareTo, in)
	if err != nil {
		return PeriodComparison{}, err
	}
	baseLabel := fmt.Sprintf("%s to %s", params.BaseFrom, params.BaseTo)
	compareLabel := fmt.Sprintf("%s to %s", params.CompareFrom, params.CompareTo)
	return PeriodComparison{
		Base:       base,
		Compare:    compare,
		Comparison: BuildComparison(baseLabel, compareLabel, base.Totals.Total, compare.Totals.Total, CompareTotals(base.Totals, compare.Totals)),
	}, nil
}

// ProjectMaterials compares budgeted against allocated spend for a project.
func (s *Service) ProjectMaterials(ctx context.Context, projectID string) (ProjectComparison, error) {
	if projectID == "" {
		return ProjectComparison{}, fmt.Errorf("%w: project id required", httpx.ErrValidation)
	}
	var cmp ProjectComparison
	err := s.fetch(ctx, keyProject(projectID), &cmp, func(ctx context.Context) (interface{}, error) {
		return s.computeProject(ctx, projectID)
	})
	if err != nil {
		return ProjectComparison{}, err
	}
	s.reportGenerated("project")
	return cmp, nil
}

func (s *Service) computeProject(ctx context.Context, projectID string) (ProjectComparison, error) {
	var (
		projects    []materials.Project
		budget      []materials.BudgetLine
		allocations []materials.AllocationRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = s.source.Projects(gctx)
		return err
	})
	g.Go(func() (err error) {
		budget, err = s.source.Budget(gctx)
		return err
	})
	g.Go(func() (err error) {
		allocations, err = s.source.Allocations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ProjectComparison{}, err
	}

	rep := ProjectReport{ProjectID: projectID}
	for _, p := range projects {
		if p.ID == projectID {
			rep.ProjectName = p.Name
			rep.Responsible = p.Responsible
			break
		}
	}
	if rep.ProjectName == "" {
		return ProjectComparison{}, fmt.Errorf("%w: project %s", httpx.ErrNotFound, projectID)
	}
	rep.Rows = AggregateMaterials(projectID, budget, allocations)
	for _, row := range rep.Rows {
		rep.BudgetTotal += row.BudgetCost
		rep.AllocatedTotal += row.AllocatedCost
	}
	rep.BudgetTotal = round2(rep.BudgetTotal)
	rep.AllocatedTotal = round2(rep.AllocatedTotal)

	return ProjectComparison{
		Report:     rep,
		Comparison: BuildComparison("Budget", "Allocated", rep.BudgetTotal, rep.AllocatedTotal, MaterialDeltas(rep.Rows)),
	}, nil
}

// PurchaseSummary totals purchased and allocated volume per material.
func (s *Service) PurchaseSummary(ctx context.Context) ([]PurchaseRow, error) {
	var rows []PurchaseRow
	err := s.fetch(ctx, keyPurchases(), &rows, func(ctx context.Context) (interface{}, error) {
		var (
			purchases   []materials.PurchaseRecord
			allocations []materials.AllocationRecord
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			purchases, err = s.source.Purchases(gctx)
			return err
		})
		g.Go(func() (err error) {
			allocations, err = s.source.Allocations(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return AggregatePurchases(purchases, allocations), nil
	})
	if err != nil {
		return nil, err
	}
	s.reportGenerated("purchases")
	return rows, nil
}

// TriggerSnapshot records a pending snapshot and hands it to the queue.
func (s *Service) TriggerSnapshot(ctx context.Context, kind SnapshotKind, params SnapshotParams) (Snapshot, error) {
	if err := params.Validate(kind); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	snap, err := s.snapshots.InsertSnapshot(ctx, kind, params)
	if err != nil {
		return Snapshot{}, err
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueSnapshot(ctx, snap.ID); err != nil {
			_ = s.snapshots.UpdateStatus(ctx, snap.ID, SnapshotFailed)
			return Snapshot{}, err
		}
	}
	s.logger.Info("snapshot queued", slog.Int64("snapshot_id", snap.ID), slog.String("kind", string(kind)))
	return snap, nil
}

// GetSnapshot returns snapshot metadata by id.
func (s *Service) GetSnapshot(ctx context.Context, id int64) (Snapshot, error) {
	return s.snapshots.GetSnapshot(ctx, id)
}

// ListSnapshots returns the most recent snapshot runs.
func (s *Service) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	return s.snapshots.ListSnapshots(ctx, limit)
}

// LoadSnapshotResult returns the stored payload for a ready snapshot.
func (s *Service) LoadSnapshotResult(ctx context.Context, id int64) (json.RawMessage, error) {
	snap, err := s.snapshots.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap.Status != SnapshotReady {
		return nil, fmt.Errorf("%w: snapshot %d is %s", httpx.ErrPrecondition, id, snap.Status)
	}
	return s.snapshots.LoadPayload(ctx, id)
}

// ProcessSnapshot computes and persists the payload for a pending snapshot.
// The worker calls this; failures leave the snapshot in FAILED with the error
// message recorded.
func (s *Service) ProcessSnapshot(ctx context.Context, snapshotID int64) error {
	snap, err := s.snapshots.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return err
	}
	if err := s.snapshots.UpdateStatus(ctx, snap.ID, SnapshotInProgress); err != nil {
		return err
	}

	var payload any
	switch snap.Kind {
	case SnapshotEquipmentCompare:
		payload, err = s.computeComparison(ctx, snap.Params)
	case SnapshotProjectMaterials:
		payload, err = s.computeProject(ctx, snap.Params.ProjectID)
	default:
		err = fmt.Errorf("report: unsupported snapshot kind %q", snap.Kind)
	}
	if err != nil {
		_ = s.snapshots.SavePayload(ctx, snap.ID, nil, err.Error())
		_ = s.snapshots.UpdateStatus(ctx, snap.ID, SnapshotFailed)
		return err
	}
	if err := s.snapshots.SavePayload(ctx, snap.ID, payload, ""); err != nil {
		_ = s.snapshots.UpdateStatus(ctx, snap.ID, SnapshotFailed)
		return err
	}
	if err := s.snapshots.UpdateStatus(ctx, snap.ID, SnapshotReady); err != nil {
		return err
	}
	s.reportGenerated("snapshot")
	return nil
}

// InvalidateCache retires every cached report. Collection writes call this.
func (s *Service) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Bump(ctx)
}

func (s *Service) fetch(ctx context.Context, keyParts []string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

func (s *Service) reportGenerated(kind string) {
	if s.metrics != nil {
		s.metrics.ReportGenerated(kind)
	}
}

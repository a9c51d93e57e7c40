package report

import (
	"context"

	"github.com/cantera-ops/cantera/internal/consumption"
	"github.com/cantera-ops/cantera/internal/costs"
	"github.com/cantera-ops/cantera/internal/fleet"
	"github.com/cantera-ops/cantera/internal/fuel"
	"github.com/cantera-ops/cantera/internal/materials"
)

// ServiceSource adapts the domain services to the Source interface.
type ServiceSource struct {
	FleetSvc       *fleet.Service
	ConsumptionSvc *consumption.Service
	CostsSvc       *costs.Service
	FuelSvc        *fuel.Service
	MaterialsSvc   *materials.Service
}

var _ Source = ServiceSource{}

func (s ServiceSource) Consumption(ctx context.Context) ([]consumption.Record, error) {
	return s.ConsumptionSvc.List(ctx)
}

func (s ServiceSource) Costs(ctx context.Context, kind costs.Kind) ([]costs.Record, error) {
	return s.CostsSvc.List(ctx, kind)
}

func (s ServiceSource) FuelPrices(ctx context.Context) ([]fuel.PriceRecord, error) {
	return s.FuelSvc.List(ctx)
}

func (s ServiceSource) Equipment(ctx context.Context) ([]fleet.Equipment, error) {
	return s.FleetSvc.ListEquipment(ctx)
}

func (s ServiceSource) Fleets(ctx context.Context) ([]fleet.Fleet, error) {
	return s.FleetSvc.ListFleets(ctx)
}

func (s ServiceSource) Projects(ctx context.Context) ([]materials.Project, error) {
	return s.MaterialsSvc.ListProjects(ctx)
}

func (s ServiceSource) Budget(ctx context.Context) ([]materials.BudgetLine, error) {
	return s.MaterialsSvc.ListBudget(ctx)
}

func (s ServiceSource) Purchases(ctx context.Context) ([]materials.PurchaseRecord, error) {
	return s.MaterialsSvc.ListPurchases(ctx)
}

func (s ServiceSource) Allocations(ctx context.Context) ([]materials.AllocationRecord, error) {
	return s.MaterialsSvc.ListAllocations(ctx)
}

package reporthttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantera-ops/cantera/internal/consumption"
	"github.com/cantera-ops/cantera/internal/costs"
	"github.com/cantera-ops/cantera/internal/fleet"
	"github.com/cantera-ops/cantera/internal/fuel"
	"github.com/cantera-ops/cantera/internal/materials"
	"github.com/cantera-ops/cantera/internal/report"
	"github.com/cantera-ops/cantera/internal/shared"
)

type stubSource struct{}

func (stubSource) Consumption(context.Context) ([]consumption.Record, error) {
	d, _ := shared.ParseDate("2024-01-10")
	d2, _ := shared.ParseDate("2024-02-10")
	return []consumption.Record{
		{Equipment: "EQ-01", Date: d, Litres: 100, Hours: 8},
		{Equipment: "EQ-01", Date: d2, Litres: 150, Hours: 10},
	}, nil
}

func (stubSource) Costs(_ context.Context, kind costs.Kind) ([]costs.Record, error) {
	if kind != costs.KindSalary {
		return nil, nil
	}
	d, _ := shared.ParseDate("2024-01-15")
	return []costs.Record{{Equipment: "EQ-01", Date: d, Amount: 40}}, nil
}

func (stubSource) FuelPrices(context.Context) ([]fuel.PriceRecord, error) {
	d, _ := shared.ParseDate("2024-01-01")
	return []fuel.PriceRecord{{Date: d, Price: 0.6}}, nil
}

func (stubSource) Equipment(context.Context) ([]fleet.Equipment, error) {
	return []fleet.Equipment{{Code: "EQ-01", Plate: "AB123"}}, nil
}

func (stubSource) Fleets(context.Context) ([]fleet.Fleet, error) { return nil, nil }

func (stubSource) Projects(context.Context) ([]materials.Project, error) {
	return []materials.Project{{ID: "p1", Name: "North bypass"}}, nil
}

func (stubSource) Budget(context.Context) ([]materials.BudgetLine, error) {
	return []materials.BudgetLine{{ProjectID: "p1", Material: "cement", Quantity: 100, UnitPrice: 10}}, nil
}

func (stubSource) Purchases(context.Context) ([]materials.PurchaseRecord, error) {
	return []materials.PurchaseRecord{{Material: "cement", Quantity: 120, UnitPrice: 10}}, nil
}

func (stubSource) Allocations(context.Context) ([]materials.AllocationRecord, error) {
	return []materials.AllocationRecord{{ProjectID: "p1", Material: "cement", Quantity: 80, UnitPrice: 12}}, nil
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	svc := report.NewService(stubSource{}, nil, nil, nil, nil, nil)
	handler := NewHandler(nil, svc)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestPeriodEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/reports/period?from=2024-01-01&to=2024-01-31", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"equipment":"EQ-01"`)
	assert.Contains(t, body, `"fuel_cost":60`)
}

func TestPeriodEndpointRejectsBadDates(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/reports/period?from=banana&to=2024-01-31", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestPeriodEndpointCSV(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/reports/period?from=2024-01-01&to=2024-01-31&format=csv", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Equipment,"))
}

func TestCompareChartEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/reports/compare/chart?base_from=2024-01-01&base_to=2024-01-31&compare_from=2024-02-01&compare_to=2024-02-29", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "image/svg+xml")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
}

func TestProjectEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/reports/projects/p1/materials", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"project_name":"North bypass"`)
}

func TestProjectEndpointUnknown(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/reports/projects/ghost/materials", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPurchasesEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/reports/purchases", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"purchased_cost":1200`)
}

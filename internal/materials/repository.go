package materials

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantera-ops/cantera/internal/platform/db"
	"github.com/cantera-ops/cantera/internal/shared"
)

// Repository persists the four materials collections. Derived costs are not
// stored; loaders recompute them so storage never becomes ground truth.
type Repository interface {
	ListProjects(ctx context.Context) ([]Project, error)
	CreateProject(ctx context.Context, p Project) error
	ReplaceProjects(ctx context.Context, projects []Project) error

	ListBudget(ctx context.Context) ([]BudgetLine, error)
	ReplaceBudget(ctx context.Context, lines []BudgetLine) error

	ListPurchases(ctx context.Context) ([]PurchaseRecord, error)
	CreatePurchase(ctx context.Context, rec PurchaseRecord) error
	ReplacePurchases(ctx context.Context, records []PurchaseRecord) error

	ListAllocations(ctx context.Context) ([]AllocationRecord, error)
	CreateAllocation(ctx context.Context, rec AllocationRecord) error
	ReplaceAllocations(ctx context.Context, records []AllocationRecord) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, responsible FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("materials: list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Responsible); err != nil {
			return nil, fmt.Errorf("materials: scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *repository) CreateProject(ctx context.Context, p Project) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO projects (id, name, responsible) VALUES ($1, $2, $3)`,
		p.ID, p.Name, p.Responsible)
	if err != nil {
		return fmt.Errorf("materials: insert project: %w", err)
	}
	return nil
}

func (r *repository) ReplaceProjects(ctx context.Context, projects []Project) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM projects`); err != nil {
			return fmt.Errorf("materials: clear projects: %w", err)
		}
		for _, p := range projects {
			if _, err := tx.Exec(ctx,
				`INSERT INTO projects (id, name, responsible) VALUES ($1, $2, $3)`,
				p.ID, p.Name, p.Responsible); err != nil {
				return fmt.Errorf("materials: insert project %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (r *repository) ListBudget(ctx context.Context) ([]BudgetLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT project_id, material, quantity, unit_price FROM material_budget ORDER BY project_id, material`)
	if err != nil {
		return nil, fmt.Errorf("materials: list budget: %w", err)
	}
	defer rows.Close()

	var lines []BudgetLine
	for rows.Next() {
		var line BudgetLine
		if err := rows.Scan(&line.ProjectID, &line.Material, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("materials: scan budget line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return CostBudget(lines), nil
}

func (r *repository) ReplaceBudget(ctx context.Context, lines []BudgetLine) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM material_budget`); err != nil {
			return fmt.Errorf("materials: clear budget: %w", err)
		}
		for _, line := range lines {
			if _, err := tx.Exec(ctx,
				`INSERT INTO material_budget (project_id, material, quantity, unit_price) VALUES ($1, $2, $3, $4)`,
				line.ProjectID, line.Material, line.Quantity, line.UnitPrice); err != nil {
				return fmt.Errorf("materials: insert budget line %s/%s: %w", line.ProjectID, line.Material, err)
			}
		}
		return nil
	})
}

func (r *repository) ListPurchases(ctx context.Context) ([]PurchaseRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date, material, quantity, unit_price FROM material_purchases ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("materials: list purchases: %w", err)
	}
	defer rows.Close()

	var records []PurchaseRecord
	for rows.Next() {
		var rec PurchaseRecord
		var date pgtype.Date
		if err := rows.Scan(&rec.ID, &date, &rec.Material, &rec.Quantity, &rec.UnitPrice); err != nil {
			return nil, fmt.Errorf("materials: scan purchase: %w", err)
		}
		if date.Valid {
			rec.Date = shared.DateOf(date.Time)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return CostPurchases(records), nil
}

func (r *repository) CreatePurchase(ctx context.Context, rec PurchaseRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO material_purchases (id, date, material, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, dateParam(rec.Date), rec.Material, rec.Quantity, rec.UnitPrice)
	if err != nil {
		return fmt.Errorf("materials: insert purchase: %w", err)
	}
	return nil
}

func (r *repository) ReplacePurchases(ctx context.Context, records []PurchaseRecord) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM material_purchases`); err != nil {
			return fmt.Errorf("materials: clear purchases: %w", err)
		}
		for _, rec := range records {
			if _, err := tx.Exec(ctx,
				`INSERT INTO material_purchases (id, date, material, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`,
				rec.ID, dateParam(rec.Date), rec.Material, rec.Quantity, rec.UnitPrice); err != nil {
				return fmt.Errorf("materials: insert purchase %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

func (r *repository) ListAllocations(ctx context.Context) ([]AllocationRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date, project_id, material, quantity, unit_price FROM material_allocations ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("materials: list allocations: %w", err)
	}
	defer rows.Close()

	var records []AllocationRecord
	for rows.Next() {
		var rec AllocationRecord
		var date pgtype.Date
		if err := rows.Scan(&rec.ID, &date, &rec.ProjectID, &rec.Material, &rec.Quantity, &rec.UnitPrice); err != nil {
			return nil, fmt.Errorf("materials: scan allocation: %w", err)
		}
		if date.Valid {
			rec.Date = shared.DateOf(date.Time)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return CostAllocations(records), nil
}

func (r *repository) CreateAllocation(ctx context.Context, rec AllocationRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO material_allocations (id, date, project_id, material, quantity, unit_price) VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, dateParam(rec.Date), rec.ProjectID, rec.Material, rec.Quantity, rec.UnitPrice)
	if err != nil {
		return fmt.Errorf("materials: insert allocation: %w", err)
	}
	return nil
}

func (r *repository) ReplaceAllocations(ctx context.Context, records []AllocationRecord) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM material_allocations`); err != nil {
			return fmt.Errorf("materials: clear allocations: %w", err)
		}
		for _, rec := range records {
			if _, err := tx.Exec(ctx,
				`INSERT INTO material_allocations (id, date, project_id, material, quantity, unit_price) VALUES ($1, $2, $3, $4, $5, $6)`,
				rec.ID, dateParam(rec.Date), rec.ProjectID, rec.Material, rec.Quantity, rec.UnitPrice); err != nil {
				return fmt.Errorf("materials: insert allocation %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

func dateParam(d shared.Date) pgtype.Date {
	if d.IsZero() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}

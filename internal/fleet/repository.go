package fleet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantera-ops/cantera/internal/platform/db"
)

// Repository persists fleet and equipment master data. Collections are small
// operational tables, so reads load them whole and writes replace them whole.
type Repository interface {
	ListFleets(ctx context.Context) ([]Fleet, error)
	CreateFleet(ctx context.Context, f Fleet) error
	ReplaceFleets(ctx context.Context, fleets []Fleet) error
	ListEquipment(ctx context.Context) ([]Equipment, error)
	CreateEquipment(ctx context.Context, e Equipment) error
	ReplaceEquipment(ctx context.Context, units []Equipment) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListFleets(ctx context.Context) ([]Fleet, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM fleets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("fleet: list fleets: %w", err)
	}
	defer rows.Close()

	var fleets []Fleet
	for rows.Next() {
		var f Fleet
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("fleet: scan fleet: %w", err)
		}
		fleets = append(fleets, f)
	}
	return fleets, rows.Err()
}

func (r *repository) CreateFleet(ctx context.Context, f Fleet) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO fleets (id, name) VALUES ($1, $2)`, f.ID, f.Name)
	if err != nil {
		return fmt.Errorf("fleet: insert fleet: %w", err)
	}
	return nil
}

func (r *repository) ReplaceFleets(ctx context.Context, fleets []Fleet) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM fleets`); err != nil {
			return fmt.Errorf("fleet: clear fleets: %w", err)
		}
		for _, f := range fleets {
			if _, err := tx.Exec(ctx, `INSERT INTO fleets (id, name) VALUES ($1, $2)`, f.ID, f.Name); err != nil {
				return fmt.Errorf("fleet: insert fleet %s: %w", f.ID, err)
			}
		}
		return nil
	})
}

func (r *repository) ListEquipment(ctx context.Context) ([]Equipment, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, plate, fleet_id FROM equipment ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("fleet: list equipment: %w", err)
	}
	defer rows.Close()

	var units []Equipment
	for rows.Next() {
		var e Equipment
		if err := rows.Scan(&e.Code, &e.Plate, &e.FleetID); err != nil {
			return nil, fmt.Errorf("fleet: scan equipment: %w", err)
		}
		units = append(units, e)
	}
	return units, rows.Err()
}

func (r *repository) CreateEquipment(ctx context.Context, e Equipment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO equipment (code, plate, fleet_id) VALUES ($1, $2, $3)`,
		e.Code, e.Plate, e.FleetID)
	if err != nil {
		return fmt.Errorf("fleet: insert equipment: %w", err)
	}
	return nil
}

func (r *repository) ReplaceEquipment(ctx context.Context, units []Equipment) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM equipment`); err != nil {
			return fmt.Errorf("fleet: clear equipment: %w", err)
		}
		for _, e := range units {
			if _, err := tx.Exec(ctx,
				`INSERT INTO equipment (code, plate, fleet_id) VALUES ($1, $2, $3)`,
				e.Code, e.Plate, e.FleetID); err != nil {
				return fmt.Errorf("fleet: insert equipment %s: %w", e.Code, err)
			}
		}
		return nil
	})
}

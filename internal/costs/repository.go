package costs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantera-ops/cantera/internal/platform/db"
	"github.com/cantera-ops/cantera/internal/shared"
)

// Repository persists the three expense collections in one kind-keyed table.
type Repository interface {
	List(ctx context.Context, kind Kind) ([]Record, error)
	Append(ctx context.Context, kind Kind, rec Record) error
	ReplaceAll(ctx context.Context, kind Kind, records []Record) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, kind Kind) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT equipment, date, amount, cost_type, description
		 FROM equipment_costs WHERE kind = $1 ORDER BY date, equipment`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("costs: list %s: %w", kind, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var date pgtype.Date
		if err := rows.Scan(&rec.Equipment, &date, &rec.Amount, &rec.Type, &rec.Description); err != nil {
			return nil, fmt.Errorf("costs: scan %s: %w", kind, err)
		}
		if date.Valid {
			rec.Date = shared.DateOf(date.Time)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repository) Append(ctx context.Context, kind Kind, rec Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO equipment_costs (kind, equipment, date, amount, cost_type, description)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(kind), rec.Equipment, dateParam(rec.Date), rec.Amount, rec.Type, rec.Description)
	if err != nil {
		return fmt.Errorf("costs: insert %s: %w", kind, err)
	}
	return nil
}

func (r *repository) ReplaceAll(ctx context.Context, kind Kind, records []Record) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM equipment_costs WHERE kind = $1`, string(kind)); err != nil {
			return fmt.Errorf("costs: clear %s: %w", kind, err)
		}
		for _, rec := range records {
			if _, err := tx.Exec(ctx,
				`INSERT INTO equipment_costs (kind, equipment, date, amount, cost_type, description)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				string(kind), rec.Equipment, dateParam(rec.Date), rec.Amount, rec.Type, rec.Description); err != nil {
				return fmt.Errorf("costs: insert %s %s: %w", kind, rec.Equipment, err)
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

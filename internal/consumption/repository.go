package consumption

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantera-ops/cantera/internal/platform/db"
	"github.com/cantera-ops/cantera/internal/shared"
)

// Repository persists the consumption collection.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, rec Record) error
	ReplaceAll(ctx context.Context, records []Record) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT equipment, date, litres, hours, distance FROM consumption ORDER BY date, equipment`)
	if err != nil {
		return nil, fmt.Errorf("consumption: list: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var date pgtype.Date
		if err := rows.Scan(&rec.Equipment, &date, &rec.Litres, &rec.Hours, &rec.Distance); err != nil {
			return nil, fmt.Errorf("consumption: scan: %w", err)
		}
		if date.Valid {
			rec.Date = shared.DateOf(date.Time)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repository) Append(ctx context.Context, rec Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO consumption (equipment, date, litres, hours, distance) VALUES ($1, $2, $3, $4, $5)`,
		rec.Equipment, dateParam(rec.Date), rec.Litres, rec.Hours, rec.Distance)
	if err != nil {
		return fmt.Errorf("consumption: insert: %w", err)
	}
	return nil
}

func (r *repository) ReplaceAll(ctx context.Context, records []Record) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM consumption`); err != nil {
			return fmt.Errorf("consumption: clear: %w", err)
		}
		for _, rec := range records {
			if _, err := tx.Exec(ctx,
				`INSERT INTO consumption (equipment, date, litres, hours, distance) VALUES ($1, $2, $3, $4, $5)`,
				rec.Equipment, dateParam(rec.Date), rec.Litres, rec.Hours, rec.Distance); err != nil {
				return fmt.Errorf("consumption: insert %s: %w", rec.Equipment, err)
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

package fuel

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantera-ops/cantera/internal/platform/db"
	"github.com/cantera-ops/cantera/internal/shared"
)

// Repository persists the fuel price collection. Insertion order is kept via
// a serial position column so the last-listed duplicate wins downstream.
type Repository interface {
	List(ctx context.Context) ([]PriceRecord, error)
	Append(ctx context.Context, rec PriceRecord) error
	ReplaceAll(ctx context.Context, records []PriceRecord) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]PriceRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT date, price FROM fuel_prices ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("fuel: list prices: %w", err)
	}
	defer rows.Close()

	var records []PriceRecord
	for rows.Next() {
		var rec PriceRecord
		var date pgtype.Date
		if err := rows.Scan(&date, &rec.Price); err != nil {
			return nil, fmt.Errorf("fuel: scan price: %w", err)
		}
		if date.Valid {
			rec.Date = shared.DateOf(date.Time)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repository) Append(ctx context.Context, rec PriceRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fuel_prices (date, price) VALUES ($1, $2)`,
		dateParam(rec.Date), rec.Price)
	if err != nil {
		return fmt.Errorf("fuel: insert price: %w", err)
	}
	return nil
}

func (r *repository) ReplaceAll(ctx context.Context, records []PriceRecord) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM fuel_prices`); err != nil {
			return fmt.Errorf("fuel: clear prices: %w", err)
		}
		for _, rec := range records {
			if _, err := tx.Exec(ctx,
				`INSERT INTO fuel_prices (date, price) VALUES ($1, $2)`,
				dateParam(rec.Date), rec.Price); err != nil {
				return fmt.Errorf("fuel: insert price %s: %w", rec.Date, err)
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

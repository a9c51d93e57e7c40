package report

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository persists snapshot metadata and payloads.
type SnapshotRepository interface {
	InsertSnapshot(ctx context.Context, kind SnapshotKind, params SnapshotParams) (Snapshot, error)
	GetSnapshot(ctx context.Context, id int64) (Snapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error)
	UpdateStatus(ctx context.Context, id int64, status SnapshotStatus) error
	SavePayload(ctx context.Context, id int64, payload any, errMsg string) error
	LoadPayload(ctx context.Context, id int64) ([]byte, error)
}

type pgSnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository builds a Postgres backed snapshot store.
func NewSnapshotRepository(pool *pgxpool.Pool) SnapshotRepository {
	return &pgSnapshotRepository{pool: pool}
}

func (r *pgSnapshotRepository) InsertSnapshot(ctx context.Context, kind SnapshotKind, params SnapshotParams) (Snapshot, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return Snapshot{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO report_snapshots (kind, params, status)
		VALUES ($1, $2, $3)
		RETURNING id, kind, params, status, error_message, created_at, updated_at`,
		string(kind), raw, string(SnapshotPending))
	return scanSnapshot(row)
}

func (r *pgSnapshotRepository) GetSnapshot(ctx context.Context, id int64) (Snapshot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, kind, params, status, error_message, created_at, updated_at
		FROM report_snapshots WHERE id = $1`, id)
	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrUnknownSnapshot
		}
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *pgSnapshotRepository) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, kind, params, status, error_message, created_at, updated_at
		FROM report_snapshots ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0, limit)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

func (r *pgSnapshotRepository) UpdateStatus(ctx context.Context, id int64, status SnapshotStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE report_snapshots SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownSnapshot
	}
	return nil
}

func (r *pgSnapshotRepository) SavePayload(ctx context.Context, id int64, payload any, errMsg string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE report_snapshots SET payload = $2, error_message = $3, updated_at = now() WHERE id = $1`,
		id, raw, pgtype.Text{String: errMsg, Valid: errMsg != ""})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownSnapshot
	}
	return nil
}

func (r *pgSnapshotRepository) LoadPayload(ctx context.Context, id int64) ([]byte, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM report_snapshots WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownSnapshot
		}
		return nil, err
	}
	return payload, nil
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		snap    Snapshot
		kind    string
		status  string
		params  []byte
		errText pgtype.Text
	)
	if err := row.Scan(&snap.ID, &kind, &params, &status, &errText, &snap.CreatedAt, &snap.UpdatedAt); err != nil {
		return Snapshot{}, err
	}
	snap.Kind = SnapshotKind(kind)
	snap.Status = SnapshotStatus(status)
	snap.Error = errText.String
	if len(params) > 0 {
		if err := json.Unmarshal(params, &snap.Params); err != nil {
			return Snapshot{}, err
		}
	}
	return snap, nil
}

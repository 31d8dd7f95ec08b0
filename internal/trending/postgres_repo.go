package trending

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (string, error) {
	const sql = `
		INSERT INTO refresh_runs (status, started_at)
		VALUES ($1, $2)
		RETURNING id`

	var id string
	err := r.db.QueryRow(ctx, sql, run.Status, run.StartedAt).Scan(&id)
	return id, err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE refresh_runs SET
			finished_at = $1,
			status = $2,
			bestsellers_fetched = $3,
			volumes_fetched = $4,
			created_count = $5,
			updated_count = $6,
			rejected_count = $7,
			store_errors = $8,
			warnings = $9,
			error = $10
		WHERE id = $11`

	_, err := r.db.Exec(ctx, sql,
		run.FinishedAt, run.Status,
		run.BestsellersFetched, run.VolumesFetched,
		run.Created, run.Updated, run.Rejected, run.StoreErrors,
		strings.Join(run.Warnings, "; "), run.Error, run.ID)
	return err
}

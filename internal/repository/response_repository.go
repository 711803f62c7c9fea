package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolvepro/complaint-service/internal/domain"
)

// ResponseRepository manages the admin reply attached to a complaint.
type ResponseRepository interface {
	Upsert(ctx context.Context, resp *domain.AdminResponse) error
}

type responseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository builds repository.
func NewResponseRepository(pool *pgxpool.Pool) ResponseRepository {
	return &responseRepository{pool: pool}
}

// Upsert inserts the reply or overwrites the existing one, refreshing its timestamp.
func (r *responseRepository) Upsert(ctx context.Context, resp *domain.AdminResponse) error {
	const query = `
        INSERT INTO admin_responses (complaint_id, response)
        VALUES ($1,$2)
        ON CONFLICT (complaint_id) DO UPDATE
            SET response = EXCLUDED.response, created_at = NOW()
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, resp.ComplaintID, resp.Response).Scan(&resp.ID, &resp.CreatedAt)
}

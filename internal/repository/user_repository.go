package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolvepro/complaint-service/internal/domain"
)

const userColumns = `id, name, email, password_hash, external_id, role, status, specialization, created_at, updated_at`

// EngineerFilter narrows the admin engineer listing.
type EngineerFilter struct {
	// Specialization is compared after trim and lowercase on both sides.
	Specialization *string
}

// UserRepository defines persistence access for every account kind.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error
	ListByStatus(ctx context.Context, status domain.UserStatus) ([]domain.User, error)
	ListApprovedEngineers(ctx context.Context) ([]domain.User, error)
	ListEngineers(ctx context.Context, filter EngineerFilter) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, external_id, role, status, specialization)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.ExternalID,
		user.Role,
		user.Status,
		user.Specialization,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email)=LOWER($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, externalID))
}

func (r *userRepository) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	const query = `UPDATE users SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) ListByStatus(ctx context.Context, status domain.UserStatus) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE status=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ListApprovedEngineers returns the assignment candidate pool in ascending id order.
func (r *userRepository) ListApprovedEngineers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role=$1 AND status=$2 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, domain.RoleEngineer, domain.UserStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) ListEngineers(ctx context.Context, filter EngineerFilter) ([]domain.User, error) {
	clauses := []string{"role=$1", "status=$2"}
	args := []any{domain.RoleEngineer, domain.UserStatusApproved}

	if filter.Specialization != nil && strings.TrimSpace(*filter.Specialization) != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Specialization)))
		clauses = append(clauses, fmt.Sprintf("LOWER(TRIM(specialization))=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY name ASC, id ASC`,
		userColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ExternalID,
		&user.Role,
		&user.Status,
		&user.Specialization,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

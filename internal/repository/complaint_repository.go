package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolvepro/complaint-service/internal/domain"
)

// ComplaintFilter captures list parameters shared by the user, engineer and admin views.
type ComplaintFilter struct {
	UserID     *int64
	AssigneeID *int64
	CategoryID *int64
	Unassigned bool
	Statuses   []domain.ComplaintStatus
	Priorities []domain.ComplaintPriority
	Limit      int
	Offset     int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id int64) (*domain.Complaint, error)
	GetView(ctx context.Context, id int64) (*domain.ComplaintView, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ComplaintStatus, assigneeID *int64) (*domain.Complaint, error)
	Assign(ctx context.Context, id, engineerID int64) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.ComplaintView, error)
	Statistics(ctx context.Context) (domain.ComplaintStatistics, error)
}

const complaintColumns = `id, user_id, category_id, assignee_id, description, priority, status, created_at, updated_at`

const complaintViewSelect = `
        SELECT c.id, c.user_id, c.category_id, c.assignee_id, c.description, c.priority, c.status,
               c.created_at, c.updated_at,
               cat.category_name, u.name, u.email, e.name, ar.response, ar.created_at
        FROM complaints c
        JOIN categories cat ON cat.id = c.category_id
        JOIN users u ON u.id = c.user_id
        LEFT JOIN users e ON e.id = c.assignee_id
        LEFT JOIN admin_responses ar ON ar.complaint_id = c.id`

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

// Create inserts the complaint with its initial assignee and status in one statement.
func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (user_id, category_id, assignee_id, description, priority, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.UserID,
		complaint.CategoryID,
		complaint.AssigneeID,
		complaint.Description,
		complaint.Priority,
		complaint.Status,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	return scanComplaint(r.pool.QueryRow(ctx, query, id))
}

func (r *complaintRepository) GetView(ctx context.Context, id int64) (*domain.ComplaintView, error) {
	query := complaintViewSelect + ` WHERE c.id=$1`
	return scanComplaintView(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus writes the status. A non-nil assigneeID restricts the write to rows
// still assigned to that engineer; no matching row yields pgx.ErrNoRows.
func (r *complaintRepository) UpdateStatus(ctx context.Context, id int64, status domain.ComplaintStatus, assigneeID *int64) (*domain.Complaint, error) {
	query := `UPDATE complaints SET status=$1, updated_at=NOW()
        WHERE id=$2 AND ($3::bigint IS NULL OR assignee_id=$3)
        RETURNING ` + complaintColumns
	return scanComplaint(r.pool.QueryRow(ctx, query, status, id, assigneeID))
}

// Assign sets the assignee and forces the status to In Progress in one statement.
func (r *complaintRepository) Assign(ctx context.Context, id, engineerID int64) (*domain.Complaint, error) {
	query := `UPDATE complaints SET assignee_id=$1, status=$2, updated_at=NOW() WHERE id=$3 RETURNING ` + complaintColumns
	return scanComplaint(r.pool.QueryRow(ctx, query, engineerID, domain.ComplaintStatusInProgress, id))
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.ComplaintView, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("c.user_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("c.assignee_id=$%d", len(args)))
	} else if filter.Unassigned {
		clauses = append(clauses, "c.assignee_id IS NULL")
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("c.category_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("c.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("c.priority IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY c.created_at DESC, c.id DESC`,
		complaintViewSelect, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintView
	for rows.Next() {
		view, err := scanComplaintView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *view)
	}
	return result, rows.Err()
}

func (r *complaintRepository) Statistics(ctx context.Context) (domain.ComplaintStatistics, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status=$1),
               COUNT(*) FILTER (WHERE status=$2),
               COUNT(*) FILTER (WHERE status=$3)
        FROM complaints`
	var stats domain.ComplaintStatistics
	err := r.pool.QueryRow(ctx, query,
		domain.ComplaintStatusPending,
		domain.ComplaintStatusInProgress,
		domain.ComplaintStatusResolved,
	).Scan(&stats.Total, &stats.Pending, &stats.InProgress, &stats.Resolved)
	return stats, err
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := row.Scan(
		&complaint.ID,
		&complaint.UserID,
		&complaint.CategoryID,
		&complaint.AssigneeID,
		&complaint.Description,
		&complaint.Priority,
		&complaint.Status,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func scanComplaintView(row pgx.Row) (*domain.ComplaintView, error) {
	var view domain.ComplaintView
	if err := row.Scan(
		&view.ID,
		&view.UserID,
		&view.CategoryID,
		&view.AssigneeID,
		&view.Description,
		&view.Priority,
		&view.Status,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.CategoryName,
		&view.UserName,
		&view.UserEmail,
		&view.AssigneeName,
		&view.Response,
		&view.ResponseDate,
	); err != nil {
		return nil, err
	}
	return &view, nil
}

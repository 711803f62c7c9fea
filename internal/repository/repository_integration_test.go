package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/persistence"
)

// setupIntegrationPool connects to the database named by POSTGRES_DSN and applies
// the repository migrations. Set RUN_REPOSITORY_INTEGRATION=true to enable.
func setupIntegrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("RUN_REPOSITORY_INTEGRATION") != "true" {
		t.Skip("set RUN_REPOSITORY_INTEGRATION=true to run this integration test")
	}

	_ = godotenv.Load(filepath.Join("..", "..", ".env"))
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Fatal("POSTGRES_DSN is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, filepath.Join("..", "..", "migrations"), zap.NewNop()))
	return pool
}

type integrationFixture struct {
	pool       *pgxpool.Pool
	users      UserRepository
	complaints ComplaintRepository
	responses  ResponseRepository
	suffix     string
}

func newIntegrationFixture(t *testing.T) *integrationFixture {
	pool := setupIntegrationPool(t)
	return &integrationFixture{
		pool:       pool,
		users:      NewUserRepository(pool),
		complaints: NewComplaintRepository(pool),
		responses:  NewResponseRepository(pool),
		suffix:     fmt.Sprintf("%d", time.Now().UnixNano()),
	}
}

func (f *integrationFixture) createUser(t *testing.T, role domain.Role, specialization *string) *domain.User {
	t.Helper()
	hash := "not-a-real-hash"
	user := &domain.User{
		Name:           "Integration " + string(role),
		Email:          fmt.Sprintf("%s_%s@example.com", role, f.suffix),
		PasswordHash:   &hash,
		Role:           role,
		Status:         domain.UserStatusApproved,
		Specialization: specialization,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	t.Cleanup(func() {
		_, _ = f.pool.Exec(context.Background(), `DELETE FROM users WHERE id=$1`, user.ID)
	})
	return user
}

func (f *integrationFixture) createCategory(t *testing.T) int64 {
	t.Helper()
	var id int64
	err := f.pool.QueryRow(context.Background(),
		`INSERT INTO categories (category_name) VALUES ($1) RETURNING id`, "Integration "+f.suffix).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = f.pool.Exec(context.Background(), `DELETE FROM complaints WHERE category_id=$1`, id)
		_, _ = f.pool.Exec(context.Background(), `DELETE FROM categories WHERE id=$1`, id)
	})
	return id
}

func TestComplaintRepositoryIntegration(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()

	spec := "Integration"
	owner := f.createUser(t, domain.RoleUser, nil)
	engineer := f.createUser(t, domain.RoleEngineer, &spec)
	categoryID := f.createCategory(t)

	complaint := &domain.Complaint{
		UserID:      owner.ID,
		CategoryID:  categoryID,
		AssigneeID:  &engineer.ID,
		Description: "assigned on insert",
		Priority:    domain.PriorityHigh,
		Status:      domain.ComplaintStatusInProgress,
	}
	require.NoError(t, f.complaints.Create(ctx, complaint))

	stored, err := f.complaints.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusInProgress, stored.Status)
	require.True(t, stored.IsAssignedTo(engineer.ID))

	view, err := f.complaints.GetView(ctx, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, "Integration "+f.suffix, view.CategoryName)
	require.Equal(t, engineer.Name, *view.AssigneeName)
	require.Nil(t, view.Response)

	t.Run("status write is conditional on the assignee", func(t *testing.T) {
		_, err := f.complaints.UpdateStatus(ctx, complaint.ID, domain.ComplaintStatusResolved, &owner.ID)
		require.ErrorIs(t, err, pgx.ErrNoRows)

		updated, err := f.complaints.UpdateStatus(ctx, complaint.ID, domain.ComplaintStatusResolved, &engineer.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ComplaintStatusResolved, updated.Status)

		updated, err = f.complaints.UpdateStatus(ctx, complaint.ID, domain.ComplaintStatusPending, nil)
		require.NoError(t, err)
		require.Equal(t, domain.ComplaintStatusPending, updated.Status)
	})

	t.Run("assign forces in progress", func(t *testing.T) {
		assigned, err := f.complaints.Assign(ctx, complaint.ID, engineer.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ComplaintStatusInProgress, assigned.Status)
	})

	t.Run("response upsert keeps one row", func(t *testing.T) {
		first := &domain.AdminResponse{ComplaintID: complaint.ID, Response: "first"}
		require.NoError(t, f.responses.Upsert(ctx, first))
		second := &domain.AdminResponse{ComplaintID: complaint.ID, Response: "second"}
		require.NoError(t, f.responses.Upsert(ctx, second))
		require.Equal(t, first.ID, second.ID)

		var count int
		require.NoError(t, f.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM admin_responses WHERE complaint_id=$1`, complaint.ID).Scan(&count))
		require.Equal(t, 1, count)

		view, err := f.complaints.GetView(ctx, complaint.ID)
		require.NoError(t, err)
		require.Equal(t, "second", *view.Response)
	})

	t.Run("unassigned insert stays pending", func(t *testing.T) {
		pending := &domain.Complaint{
			UserID:      owner.ID,
			CategoryID:  categoryID,
			Description: "nobody matched",
			Priority:    domain.PriorityLow,
			Status:      domain.ComplaintStatusPending,
		}
		require.NoError(t, f.complaints.Create(ctx, pending))

		stored, err := f.complaints.GetByID(ctx, pending.ID)
		require.NoError(t, err)
		require.Nil(t, stored.AssigneeID)
		require.Equal(t, domain.ComplaintStatusPending, stored.Status)
	})
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/events"
	"github.com/resolvepro/complaint-service/internal/repository"
	apperrors "github.com/resolvepro/complaint-service/pkg/util/errorutil"
)

// AdminService handles account review and engineer directory reads.
type AdminService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AdminDependencies bundles collaborators.
type AdminDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAdminService creates the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{users: deps.UserRepo, dispatcher: deps.Dispatcher, logger: logger}
}

// ListPendingUsers returns accounts awaiting review, oldest first.
func (s *AdminService) ListPendingUsers(ctx context.Context, actor domain.Identity) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	users, err := s.users.ListByStatus(ctx, domain.UserStatusPending)
	if err != nil {
		return nil, apperrors.Wrap("admin.list_pending", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// ApproveUser moves a pending account to approved.
func (s *AdminService) ApproveUser(ctx context.Context, actor domain.Identity, userID int64) (*domain.User, error) {
	return s.review(ctx, actor, userID, domain.UserStatusApproved)
}

// RejectUser moves a pending account to rejected.
func (s *AdminService) RejectUser(ctx context.Context, actor domain.Identity, userID int64) (*domain.User, error) {
	return s.review(ctx, actor, userID, domain.UserStatusRejected)
}

// ListEngineers returns approved engineers ordered by name. A non-empty category keeps only
// engineers whose specialization equals it after trim and lowercase.
func (s *AdminService) ListEngineers(ctx context.Context, actor domain.Identity, category string) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	filter := repository.EngineerFilter{}
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		filter.Specialization = &trimmed
	}
	engineers, err := s.users.ListEngineers(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap("admin.list_engineers", err)
	}
	if engineers == nil {
		engineers = []domain.User{}
	}
	return engineers, nil
}

func (s *AdminService) review(ctx context.Context, actor domain.Identity, userID int64, next domain.UserStatus) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError("admin.load_user", "user", map[string]any{"user_id": userID}, err)
	}
	if user.Status != domain.UserStatusPending {
		return nil, apperrors.NewValidationError("user is not pending approval",
			map[string]any{"user_id": userID, "status": user.Status})
	}
	if err := s.users.UpdateStatus(ctx, userID, next); err != nil {
		return nil, lookupError("admin.update_status", "user", map[string]any{"user_id": userID}, err)
	}
	user.Status = next

	s.logger.Info("user reviewed",
		zap.Int64("user_id", userID),
		zap.Int64("admin_id", actor.UserID),
		zap.String("status", string(next)))
	publish(ctx, s.dispatcher, events.NewEvent(events.EventUserReviewed, 0, events.ActorFrom(actor),
		events.UserReviewedPayload{UserID: userID, Status: next}))
	return user, nil
}

package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/resolvepro/complaint-service/internal/assignment"
	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/events"
	"github.com/resolvepro/complaint-service/internal/repository"
	apperrors "github.com/resolvepro/complaint-service/pkg/util/errorutil"
)

// AssignmentRecorder counts auto-assignment outcomes.
type AssignmentRecorder interface {
	RecordAssignment(kind string)
}

// AssignmentDecision is the outcome of running the resolver for one category.
type AssignmentDecision struct {
	Category domain.Category
	PoolSize int
	Kind     assignment.MatchKind
	Engineer *domain.User
}

// EngineerID returns the chosen engineer id or nil.
func (d AssignmentDecision) EngineerID() *int64 {
	if d.Engineer == nil {
		return nil
	}
	id := d.Engineer.ID
	return &id
}

// AssignmentService handles complaint assignment operations.
type AssignmentService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	CategoryRepo  repository.CategoryRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Decide runs the resolver for category against the approved engineers at call time.
func (s *AssignmentService) Decide(ctx context.Context, category domain.Category) (AssignmentDecision, error) {
	pool, err := s.users.ListApprovedEngineers(ctx)
	if err != nil {
		return AssignmentDecision{}, apperrors.Wrap("assignment.load_pool", err)
	}

	candidates := make([]assignment.Candidate, 0, len(pool))
	for _, engineer := range pool {
		spec := ""
		if engineer.Specialization != nil {
			spec = *engineer.Specialization
		}
		candidates = append(candidates, assignment.Candidate{ID: engineer.ID, Specialization: spec})
	}

	decision := AssignmentDecision{Category: category, PoolSize: len(pool), Kind: assignment.MatchNone}
	match, ok := assignment.Resolve(category.Name, candidates)
	if !ok {
		return decision, nil
	}
	decision.Kind = match.Kind
	for i := range pool {
		if pool[i].ID == match.EngineerID {
			decision.Engineer = &pool[i]
			break
		}
	}
	return decision, nil
}

// Preview reports who a new complaint in categoryID would be assigned to, without persisting anything.
func (s *AssignmentService) Preview(ctx context.Context, actor domain.Identity, categoryID int64) (AssignmentDecision, error) {
	if !actor.IsAdmin() {
		return AssignmentDecision{}, apperrors.NewForbidden("admin role required")
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return AssignmentDecision{}, lookupError("assignment.preview", "category", map[string]any{"category_id": categoryID}, err)
	}
	return s.Decide(ctx, *category)
}

// AssignEngineer sets the assignee of a complaint and forces it to In Progress, whatever its current status.
func (s *AssignmentService) AssignEngineer(ctx context.Context, actor domain.Identity, complaintID, engineerID int64) (*domain.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}

	engineer, err := s.users.GetByID(ctx, engineerID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Wrap("assignment.load_engineer", err)
	}
	if err != nil || !engineer.IsAssignable() {
		return nil, apperrors.NewDomainError(apperrors.CodeNotFound, "engineer not found or not approved",
			http.StatusNotFound, map[string]any{"engineer_id": engineerID})
	}

	current, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, lookupError("assignment.load_complaint", "complaint", map[string]any{"complaint_id": complaintID}, err)
	}

	updated, err := s.complaints.Assign(ctx, complaintID, engineer.ID)
	if err != nil {
		return nil, lookupError("assignment.assign", "complaint", map[string]any{"complaint_id": complaintID}, err)
	}

	s.logger.Info("complaint assigned",
		zap.Int64("complaint_id", updated.ID),
		zap.Int64("engineer_id", engineer.ID),
		zap.Int64("admin_id", actor.UserID),
		zap.String("previous_status", string(current.Status)))

	publish(ctx, s.dispatcher, events.NewEvent(events.EventComplaintAssigned, updated.ID, events.ActorFrom(actor),
		events.ComplaintAssignedPayload{
			AssigneeID:         engineer.ID,
			PreviousAssigneeID: current.AssigneeID,
			Automatic:          false,
			OldStatus:          current.Status,
			NewStatus:          updated.Status,
		}))
	return updated, nil
}

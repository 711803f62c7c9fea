package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/events"
	"github.com/resolvepro/complaint-service/internal/repository"
	apperrors "github.com/resolvepro/complaint-service/pkg/util/errorutil"
)

// ComplaintService coordinates the complaint lifecycle.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	categories  repository.CategoryRepository
	responses   repository.ResponseRepository
	assignments *AssignmentService
	dispatcher  events.Dispatcher
	metrics     AssignmentRecorder
	logger      *zap.Logger
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	CategoryRepo  repository.CategoryRepository
	ResponseRepo  repository.ResponseRepository
	Assignments   *AssignmentService
	Dispatcher    events.Dispatcher
	Metrics       AssignmentRecorder
	Logger        *zap.Logger
}

// CreateComplaintInput describes complaint creation payload.
type CreateComplaintInput struct {
	CategoryID  int64
	Description string
	Priority    domain.ComplaintPriority
}

// ComplaintListFilter describes listing filters shared by every role.
type ComplaintListFilter struct {
	Statuses   []domain.ComplaintStatus
	Priorities []domain.ComplaintPriority
	CategoryID *int64
	AssigneeID *int64
	Unassigned bool
	Limit      int
	Offset     int
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		categories:  deps.CategoryRepo,
		responses:   deps.ResponseRepo,
		assignments: deps.Assignments,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// Create files a complaint for the caller. When the resolver finds an engineer the complaint
// is stored already assigned and In Progress, otherwise unassigned and Pending.
func (s *ComplaintService) Create(ctx context.Context, identity domain.Identity, input CreateComplaintInput) (*domain.Complaint, error) {
	if identity.Role != domain.RoleUser {
		return nil, apperrors.NewForbidden("only users can file complaints")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description is required", map[string]any{"field": "description"})
	}
	if !input.Priority.IsValid() {
		return nil, apperrors.NewValidationError("invalid priority. Must be Low, Medium, or High", map[string]any{"field": "priority"})
	}
	if input.CategoryID <= 0 {
		return nil, apperrors.NewValidationError("invalid category id", map[string]any{"field": "category_id"})
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, lookupError("complaint.load_category", "category", map[string]any{"category_id": input.CategoryID}, err)
	}

	decision, err := s.assignments.Decide(ctx, *category)
	if err != nil {
		return nil, err
	}

	complaint := &domain.Complaint{
		UserID:      identity.UserID,
		CategoryID:  category.ID,
		Description: description,
		Priority:    input.Priority,
		Status:      domain.ComplaintStatusPending,
	}
	if engineerID := decision.EngineerID(); engineerID != nil {
		complaint.AssigneeID = engineerID
		complaint.Status = domain.ComplaintStatusInProgress
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.Wrap("complaint.create", err)
	}

	if s.metrics != nil {
		s.metrics.RecordAssignment(string(decision.Kind))
	}
	s.logger.Info("complaint created",
		zap.Int64("complaint_id", complaint.ID),
		zap.Int64("user_id", identity.UserID),
		zap.String("category", category.Name),
		zap.String("match", string(decision.Kind)),
		zap.Int("pool_size", decision.PoolSize))

	actor := events.ActorFrom(identity)
	publish(ctx, s.dispatcher, events.NewEvent(events.EventComplaintCreated, complaint.ID, actor,
		events.ComplaintCreatedPayload{
			CategoryID: category.ID,
			Category:   category.Name,
			Priority:   complaint.Priority,
			Status:     complaint.Status,
			AssigneeID: complaint.AssigneeID,
		}))
	if complaint.AssigneeID != nil {
		publish(ctx, s.dispatcher, events.NewEvent(events.EventComplaintAssigned, complaint.ID, actor,
			events.ComplaintAssignedPayload{
				AssigneeID: *complaint.AssigneeID,
				Automatic:  true,
				MatchKind:  string(decision.Kind),
				OldStatus:  domain.ComplaintStatusPending,
				NewStatus:  complaint.Status,
			}))
	}
	return complaint, nil
}

// UpdateStatus sets the complaint status to any valid value. Engineers may only touch
// complaints currently assigned to them; admins may touch any.
func (s *ComplaintService) UpdateStatus(ctx context.Context, identity domain.Identity, complaintID int64, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
	}
	if !identity.IsAdmin() && !identity.IsEngineer() {
		return nil, apperrors.NewForbidden("engineer or admin role required")
	}

	current, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, lookupError("complaint.load", "complaint", map[string]any{"complaint_id": complaintID}, err)
	}
	if identity.IsEngineer() && !current.IsAssignedTo(identity.UserID) {
		return nil, apperrors.NewForbidden("you can only update complaints assigned to you")
	}

	var assignee *int64
	if identity.IsEngineer() {
		assignee = &identity.UserID
	}
	updated, err := s.complaints.UpdateStatus(ctx, complaintID, status, assignee)
	if err != nil {
		if assignee != nil && errors.Is(err, pgx.ErrNoRows) {
			// reassigned between the read and the write
			return nil, apperrors.NewForbidden("you can only update complaints assigned to you")
		}
		return nil, lookupError("complaint.update_status", "complaint", map[string]any{"complaint_id": complaintID}, err)
	}

	publish(ctx, s.dispatcher, events.NewEvent(events.EventComplaintStatusChanged, updated.ID, events.ActorFrom(identity),
		events.ComplaintStatusChangedPayload{OldStatus: current.Status, NewStatus: updated.Status}))
	return updated, nil
}

// AssignEngineer delegates the admin reassignment to the assignment service.
func (s *ComplaintService) AssignEngineer(ctx context.Context, identity domain.Identity, complaintID, engineerID int64) (*domain.Complaint, error) {
	return s.assignments.AssignEngineer(ctx, identity, complaintID, engineerID)
}

// AddResponse stores the admin reply for a complaint, replacing any earlier one.
func (s *ComplaintService) AddResponse(ctx context.Context, identity domain.Identity, complaintID int64, text string) (*domain.AdminResponse, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("response is required", map[string]any{"field": "response"})
	}

	if _, err := s.complaints.GetByID(ctx, complaintID); err != nil {
		return nil, lookupError("complaint.load", "complaint", map[string]any{"complaint_id": complaintID}, err)
	}

	resp := &domain.AdminResponse{ComplaintID: complaintID, Response: text}
	if err := s.responses.Upsert(ctx, resp); err != nil {
		return nil, apperrors.Wrap("complaint.upsert_response", err)
	}

	publish(ctx, s.dispatcher, events.NewEvent(events.EventComplaintResponseSaved, complaintID, events.ActorFrom(identity),
		events.ComplaintResponseSavedPayload{ResponseID: resp.ID, ResponsePreview: stringPreview(resp.Response, 120)}))
	return resp, nil
}

// ListForUser returns the caller's own complaints, newest first.
func (s *ComplaintService) ListForUser(ctx context.Context, identity domain.Identity, filter ComplaintListFilter) ([]domain.ComplaintView, error) {
	repoFilter := toRepositoryFilter(filter)
	repoFilter.UserID = &identity.UserID
	repoFilter.AssigneeID = nil
	repoFilter.Unassigned = false
	return s.list(ctx, "complaint.list_for_user", repoFilter)
}

// ListAssigned returns complaints currently assigned to the calling engineer.
func (s *ComplaintService) ListAssigned(ctx context.Context, identity domain.Identity, filter ComplaintListFilter) ([]domain.ComplaintView, error) {
	if !identity.IsEngineer() {
		return nil, apperrors.NewForbidden("engineer role required")
	}
	repoFilter := toRepositoryFilter(filter)
	repoFilter.AssigneeID = &identity.UserID
	repoFilter.Unassigned = false
	return s.list(ctx, "complaint.list_assigned", repoFilter)
}

// ListAll returns filtered complaints together with statistics over every complaint.
func (s *ComplaintService) ListAll(ctx context.Context, identity domain.Identity, filter ComplaintListFilter) ([]domain.ComplaintView, domain.ComplaintStatistics, error) {
	if !identity.IsAdmin() {
		return nil, domain.ComplaintStatistics{}, apperrors.NewForbidden("admin role required")
	}
	views, err := s.list(ctx, "complaint.list_all", toRepositoryFilter(filter))
	if err != nil {
		return nil, domain.ComplaintStatistics{}, err
	}
	stats, err := s.Statistics(ctx)
	if err != nil {
		return nil, domain.ComplaintStatistics{}, err
	}
	return views, stats, nil
}

// Statistics counts complaints per status.
func (s *ComplaintService) Statistics(ctx context.Context) (domain.ComplaintStatistics, error) {
	stats, err := s.complaints.Statistics(ctx)
	if err != nil {
		return domain.ComplaintStatistics{}, apperrors.Wrap("complaint.statistics", err)
	}
	return stats, nil
}

// Get returns one complaint scoped to the caller: users see their own (others look absent),
// engineers see those assigned to them, admins see everything.
func (s *ComplaintService) Get(ctx context.Context, identity domain.Identity, complaintID int64) (*domain.ComplaintView, error) {
	view, err := s.complaints.GetView(ctx, complaintID)
	if err != nil {
		return nil, lookupError("complaint.get", "complaint", map[string]any{"complaint_id": complaintID}, err)
	}

	switch identity.Role {
	case domain.RoleAdmin:
		return view, nil
	case domain.RoleEngineer:
		if !view.IsAssignedTo(identity.UserID) {
			return nil, apperrors.NewForbidden("complaint is not assigned to you")
		}
		return view, nil
	case domain.RoleUser:
		if view.UserID != identity.UserID {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return view, nil
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}
}

func (s *ComplaintService) list(ctx context.Context, op string, filter repository.ComplaintFilter) ([]domain.ComplaintView, error) {
	views, err := s.complaints.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(op, err)
	}
	if views == nil {
		views = []domain.ComplaintView{}
	}
	return views, nil
}

func toRepositoryFilter(filter ComplaintListFilter) repository.ComplaintFilter {
	return repository.ComplaintFilter{
		CategoryID: filter.CategoryID,
		AssigneeID: filter.AssigneeID,
		Unassigned: filter.Unassigned,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
}

// PreviewAssignment exposes the assignment dry run.
func (s *ComplaintService) PreviewAssignment(ctx context.Context, identity domain.Identity, categoryID int64) (AssignmentDecision, error) {
	return s.assignments.Preview(ctx, identity, categoryID)
}

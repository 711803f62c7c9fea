package dto

import (
	"time"

	"github.com/resolvepro/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
	Description string `json:"description" validate:"notblank"`
	Priority    string `json:"priority" validate:"required,complaint_priority"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,complaint_status"`
}

// AssignEngineerRequest payload.
type AssignEngineerRequest struct {
	EngineerID int64 `json:"engineer_id" validate:"required,gt=0"`
}

// AddResponseRequest payload.
type AddResponseRequest struct {
	Response string `json:"response" validate:"notblank"`
}

// ComplaintQuery captures list filters from the query string.
type ComplaintQuery struct {
	Statuses   []domain.ComplaintStatus
	Priorities []domain.ComplaintPriority
	CategoryID *int64
	AssigneeID *int64
	Unassigned bool
	Page       int
	PageSize   int
}

// ComplaintResponse is the base complaint body returned by writes.
type ComplaintResponse struct {
	ID          int64                    `json:"id"`
	UserID      int64                    `json:"user_id"`
	CategoryID  int64                    `json:"category_id"`
	AssignedTo  *int64                   `json:"assigned_to"`
	Description string                   `json:"description"`
	Priority    domain.ComplaintPriority `json:"priority"`
	Status      domain.ComplaintStatus   `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ComplaintViewResponse adds the joined names and the admin response.
type ComplaintViewResponse struct {
	ComplaintResponse
	CategoryName string     `json:"category_name"`
	UserName     string     `json:"user_name"`
	UserEmail    string     `json:"user_email"`
	EngineerName *string    `json:"engineer_name"`
	Response     *string    `json:"response"`
	ResponseDate *time.Time `json:"response_date"`
}

// StatisticsResponse aggregates counts per status.
type StatisticsResponse struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}

// AdminComplaintsResponse is the admin listing body.
type AdminComplaintsResponse struct {
	Complaints []ComplaintViewResponse `json:"complaints"`
	Statistics StatisticsResponse      `json:"statistics"`
}

// CreateComplaintResponse tells the caller whether auto-assignment found an engineer.
type CreateComplaintResponse struct {
	Complaint    ComplaintResponse `json:"complaint"`
	AutoAssigned bool              `json:"auto_assigned"`
}

// AdminResponseBody is the saved admin reply.
type AdminResponseBody struct {
	ID          int64     `json:"id"`
	ComplaintID int64     `json:"complaint_id"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssignmentPreviewResponse describes what auto-assignment would pick for a category.
type AssignmentPreviewResponse struct {
	CategoryID   int64             `json:"category_id"`
	CategoryName string            `json:"category_name"`
	PoolSize     int               `json:"pool_size"`
	MatchKind    string            `json:"match_kind"`
	Engineer     *EngineerResponse `json:"engineer"`
}

// CategoryResponse lists a category.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"category_name"`
}

// NewComplaintResponse maps a complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		CategoryID:  c.CategoryID,
		AssignedTo:  c.AssigneeID,
		Description: c.Description,
		Priority:    c.Priority,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewComplaintViewResponse maps a joined complaint view.
func NewComplaintViewResponse(v *domain.ComplaintView) ComplaintViewResponse {
	return ComplaintViewResponse{
		ComplaintResponse: NewComplaintResponse(&v.Complaint),
		CategoryName:      v.CategoryName,
		UserName:          v.UserName,
		UserEmail:         v.UserEmail,
		EngineerName:      v.AssigneeName,
		Response:          v.Response,
		ResponseDate:      v.ResponseDate,
	}
}

// NewComplaintViewResponses maps a slice, never returning nil.
func NewComplaintViewResponses(views []domain.ComplaintView) []ComplaintViewResponse {
	out := make([]ComplaintViewResponse, 0, len(views))
	for i := range views {
		out = append(out, NewComplaintViewResponse(&views[i]))
	}
	return out
}

// NewStatisticsResponse maps statistics.
func NewStatisticsResponse(s domain.ComplaintStatistics) StatisticsResponse {
	return StatisticsResponse{Total: s.Total, Pending: s.Pending, InProgress: s.InProgress, Resolved: s.Resolved}
}

// NewAdminResponseBody maps a saved admin response.
func NewAdminResponseBody(r *domain.AdminResponse) AdminResponseBody {
	return AdminResponseBody{ID: r.ID, ComplaintID: r.ComplaintID, Response: r.Response, CreatedAt: r.CreatedAt}
}

// NewCategoryResponses maps categories, never returning nil.
func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}

package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/resolvepro/complaint-service/internal/api/dto"
	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/service"
	"github.com/resolvepro/complaint-service/pkg/util/response"
)

// ComplaintsHandler serves complaint endpoints shared by users and engineers.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
	validate   *validator.Validate
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints *service.ComplaintService, validate *validator.Validate) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaints, validate: validate}
}

// Create handles POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	complaint, err := h.complaints.Create(c.UserContext(), identity, service.CreateComplaintInput{
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Priority:    domain.ComplaintPriority(req.Priority),
	})
	if err != nil {
		return err
	}

	message := "complaint submitted successfully"
	if complaint.AssigneeID != nil {
		message = "complaint submitted and assigned to an engineer"
	}
	return response.Created(c, message, dto.CreateComplaintResponse{
		Complaint:    dto.NewComplaintResponse(complaint),
		AutoAssigned: complaint.AssigneeID != nil,
	})
}

// ListMine handles GET /api/complaints.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	q, err := parseComplaintQuery(c)
	if err != nil {
		return err
	}
	views, err := h.complaints.ListForUser(c.UserContext(), identity, listFilter(q))
	if err != nil {
		return err
	}
	return response.OK(c, "complaints retrieved", dto.NewComplaintViewResponses(views))
}

// ListAssigned handles GET /api/complaints/assigned.
func (h *ComplaintsHandler) ListAssigned(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	q, err := parseComplaintQuery(c)
	if err != nil {
		return err
	}
	views, err := h.complaints.ListAssigned(c.UserContext(), identity, listFilter(q))
	if err != nil {
		return err
	}
	return response.OK(c, "assigned complaints retrieved", dto.NewComplaintViewResponses(views))
}

// Get handles GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	view, err := h.complaints.Get(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return response.OK(c, "complaint retrieved", dto.NewComplaintViewResponse(view))
}

// UpdateStatus handles PUT /api/complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), identity, id, domain.ComplaintStatus(req.Status))
	if err != nil {
		return err
	}
	return response.OK(c, "status updated successfully", dto.NewComplaintResponse(complaint))
}

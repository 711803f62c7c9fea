package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/resolvepro/complaint-service/internal/api/dto"
	"github.com/resolvepro/complaint-service/internal/service"
	"github.com/resolvepro/complaint-service/pkg/util/response"
)

// AdminHandler exposes the admin console: complaint oversight, manual assignment,
// responses and account review.
type AdminHandler struct {
	complaints *service.ComplaintService
	admin      *service.AdminService
	validate   *validator.Validate
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaints *service.ComplaintService, admin *service.AdminService, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{complaints: complaints, admin: admin, validate: validate}
}

// ListComplaints handles GET /api/admin/complaints.
func (h *AdminHandler) ListComplaints(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	q, err := parseComplaintQuery(c)
	if err != nil {
		return err
	}
	views, stats, err := h.complaints.ListAll(c.UserContext(), identity, listFilter(q))
	if err != nil {
		return err
	}
	return response.OK(c, "complaints retrieved", dto.AdminComplaintsResponse{
		Complaints: dto.NewComplaintViewResponses(views),
		Statistics: dto.NewStatisticsResponse(stats),
	})
}

// AssignEngineer handles POST /api/admin/complaints/:id/assign.
func (h *AdminHandler) AssignEngineer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.AssignEngineerRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	complaint, err := h.complaints.AssignEngineer(c.UserContext(), identity, id, req.EngineerID)
	if err != nil {
		return err
	}
	return response.OK(c, "engineer assigned successfully", dto.NewComplaintResponse(complaint))
}

// AddResponse handles POST /api/admin/complaints/:id/response.
func (h *AdminHandler) AddResponse(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.AddResponseRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	saved, err := h.complaints.AddResponse(c.UserContext(), identity, id, req.Response)
	if err != nil {
		return err
	}
	return response.OK(c, "response saved successfully", dto.NewAdminResponseBody(saved))
}

// PreviewAssignment handles GET /api/admin/categories/:id/assignment-preview.
func (h *AdminHandler) PreviewAssignment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	decision, err := h.complaints.PreviewAssignment(c.UserContext(), identity, id)
	if err != nil {
		return err
	}

	body := dto.AssignmentPreviewResponse{
		CategoryID:   decision.Category.ID,
		CategoryName: decision.Category.Name,
		PoolSize:     decision.PoolSize,
		MatchKind:    string(decision.Kind),
	}
	if decision.Engineer != nil {
		engineer := dto.NewEngineerResponse(decision.Engineer)
		body.Engineer = &engineer
	}
	return response.OK(c, "assignment preview", body)
}

// ListPendingUsers handles GET /api/admin/users/pending.
func (h *AdminHandler) ListPendingUsers(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	users, err := h.admin.ListPendingUsers(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return response.OK(c, "pending users retrieved", dto.NewUserResponses(users))
}

// ApproveUser handles POST /api/admin/users/:id/approve.
func (h *AdminHandler) ApproveUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	user, err := h.admin.ApproveUser(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return response.OK(c, "user approved successfully", dto.NewUserResponse(user))
}

// RejectUser handles POST /api/admin/users/:id/reject.
func (h *AdminHandler) RejectUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	user, err := h.admin.RejectUser(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return response.OK(c, "user rejected successfully", dto.NewUserResponse(user))
}

// ListEngineers handles GET /api/admin/engineers?category=.
func (h *AdminHandler) ListEngineers(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	engineers, err := h.admin.ListEngineers(c.UserContext(), identity, c.Query("category"))
	if err != nil {
		return err
	}
	return response.OK(c, "engineers retrieved", dto.NewEngineerResponses(engineers))
}

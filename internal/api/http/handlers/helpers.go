package handlers

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/resolvepro/complaint-service/internal/api/dto"
	"github.com/resolvepro/complaint-service/internal/auth"
	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/service"
	apperrors "github.com/resolvepro/complaint-service/pkg/util/errorutil"
)

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, v *validator.Validate, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(v, req)
}

func identityFrom(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthorized("authentication required")
	}
	return identity, nil
}

// paramID parses a positive integer path parameter. Handlers call it before touching
// any service so malformed ids never reach the database.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: raw})
	}
	return id, nil
}

func parseComplaintQuery(c *fiber.Ctx) (dto.ComplaintQuery, error) {
	var q dto.ComplaintQuery
	for _, part := range splitList(c.Query("status")) {
		status := domain.ComplaintStatus(part)
		if !status.IsValid() {
			return q, apperrors.NewValidationError("invalid status filter", map[string]any{"status": part})
		}
		q.Statuses = append(q.Statuses, status)
	}
	for _, part := range splitList(c.Query("priority")) {
		priority := domain.ComplaintPriority(part)
		if !priority.IsValid() {
			return q, apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": part})
		}
		q.Priorities = append(q.Priorities, priority)
	}

	var err error
	if q.CategoryID, err = optionalID(c, "category_id"); err != nil {
		return q, err
	}
	if q.AssigneeID, err = optionalID(c, "assignee_id"); err != nil {
		return q, err
	}
	q.Unassigned = c.QueryBool("unassigned", false)
	q.Page = parseInt(c.Query("page"), 1)
	q.PageSize = parseInt(c.Query("page_size"), 0)
	return q, nil
}

// maxPageSize caps page_size on list endpoints. Without page_size lists are unpaged.
const maxPageSize = 100

func listFilter(q dto.ComplaintQuery) service.ComplaintListFilter {
	filter := service.ComplaintListFilter{
		Statuses:   q.Statuses,
		Priorities: q.Priorities,
		CategoryID: q.CategoryID,
		AssigneeID: q.AssigneeID,
		Unassigned: q.Unassigned,
	}
	if q.PageSize > 0 {
		filter.Limit = min(q.PageSize, maxPageSize)
		filter.Offset = (q.Page - 1) * filter.Limit
	}
	return filter
}

func optionalID(c *fiber.Ctx, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperrors.NewValidationError("invalid "+key, map[string]any{key: raw})
	}
	return &id, nil
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

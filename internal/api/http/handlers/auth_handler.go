package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/resolvepro/complaint-service/internal/api/dto"
	"github.com/resolvepro/complaint-service/internal/auth"
	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/service"
	apperrors "github.com/resolvepro/complaint-service/pkg/util/errorutil"
	"github.com/resolvepro/complaint-service/pkg/util/response"
)

// AuthHandler exposes registration, login and session endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{auth: authService, validate: validate}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           domain.Role(req.Role),
		Specialization: req.Specialization,
	})
	if err != nil {
		return err
	}

	return response.Created(c, registrationMessage(result), dto.NewAuthResponse(result.User, result.Token, result.ExpiresAt))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return response.OK(c, "login successful", dto.NewAuthResponse(result.User, result.Token, result.ExpiresAt))
}

// ExternalLogin handles POST /api/auth/external. New accounts answer 201.
func (h *AuthHandler) ExternalLogin(c *fiber.Ctx) error {
	var req dto.ExternalLoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	result, err := h.auth.ExternalLogin(c.UserContext(), service.ExternalLoginInput{
		ExternalID: req.ExternalID,
		Email:      req.Email,
		Name:       req.Name,
		Role:       domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	body := dto.NewAuthResponse(result.User, result.Token, result.ExpiresAt)
	if !result.Created {
		return response.OK(c, "login successful", body)
	}
	return response.Created(c, registrationMessage(result), body)
}

func registrationMessage(result *service.AuthResult) string {
	if result.Token == "" {
		return "registration successful. Your account is pending approval from the administrator"
	}
	return "registration successful"
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), claims); err != nil {
		return err
	}
	return response.OK(c, "logged out", nil)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return response.OK(c, "user retrieved", dto.NewUserResponse(user))
}

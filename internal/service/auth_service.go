package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/resolvepro/complaint-service/internal/auth"
	"github.com/resolvepro/complaint-service/internal/config"
	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/events"
	"github.com/resolvepro/complaint-service/internal/repository"
	apperrors "github.com/resolvepro/complaint-service/pkg/util/errorutil"
)

// RegisterInput describes a self-service registration.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           domain.Role
	Specialization string
}

// ExternalLoginInput describes a sign-in vouched for by an external identity provider.
type ExternalLoginInput struct {
	ExternalID string
	Email      string
	Name       string
	Role       domain.Role
}

// AuthResult is returned by flows that may issue a token.
// Token is empty when the account still awaits approval.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
	Created   bool
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	revocations auth.RevocationStore
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	Revocations  auth.RevocationStore
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		tokenMgr:    deps.TokenManager,
		revocations: deps.Revocations,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		bcryptCost:  cfg.BcryptCost,
	}
}

// Register creates a password account. Users are approved immediately; engineers and
// admins wait for an admin decision and receive no token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("missing required fields", nil)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"field": "role"})
	}

	var specialization *string
	if role == domain.RoleEngineer {
		spec := strings.TrimSpace(input.Specialization)
		if spec == "" {
			return nil, apperrors.NewValidationError("specialization is required for engineers", map[string]any{"field": "specialization"})
		}
		specialization = &spec
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap("auth.hash_password", err)
	}

	user := &domain.User{
		Name:           name,
		Email:          email,
		PasswordHash:   &hash,
		Role:           role,
		Status:         domain.InitialStatusFor(role),
		Specialization: specialization,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, createUserError(err)
	}
	s.announceRegistration(ctx, user)

	return s.issue(user, true)
}

// Login authenticates a password account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.Wrap("auth.load_user", err)
	}
	if user.PasswordHash == nil {
		return nil, apperrors.NewValidationError("this account signs in with an external identity provider", nil)
	}
	if err := auth.ComparePassword(*user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.Wrap("auth.compare_password", err)
	}
	if err := approvalError(user); err != nil {
		return nil, err
	}
	return s.issue(user, false)
}

// ExternalLogin signs in, or signs up, an account identified by an external provider.
// Only the user and admin roles may use it.
func (s *AuthService) ExternalLogin(ctx context.Context, input ExternalLoginInput) (*AuthResult, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if externalID == "" || email == "" || name == "" || input.Role == "" {
		return nil, apperrors.NewValidationError("missing required fields", nil)
	}
	if input.Role != domain.RoleUser && input.Role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("invalid role. Must be user or admin", map[string]any{"field": "role"})
	}

	existing, err := s.findExternal(ctx, externalID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Role != input.Role {
			return nil, apperrors.NewForbidden("role mismatch. Account exists as " + string(existing.Role))
		}
		if err := approvalError(existing); err != nil {
			return nil, err
		}
		return s.issue(existing, false)
	}

	user := &domain.User{
		Name:       name,
		Email:      email,
		ExternalID: &externalID,
		Role:       input.Role,
		Status:     domain.InitialStatusFor(input.Role),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, createUserError(err)
	}
	s.announceRegistration(ctx, user)
	return s.issue(user, true)
}

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.NewUnauthorized("token required")
	}
	if s.revocations == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.Wrap("auth.revoke_token", err)
	}
	return nil
}

// Me returns the account of the authenticated caller.
func (s *AuthService) Me(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, lookupError("auth.me", "user", map[string]any{"user_id": identity.UserID}, err)
	}
	return user, nil
}

// EnsureAdmin creates an approved admin with the given credentials unless the email is taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	email = normalizeEmail(email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, apperrors.Wrap("auth.bootstrap_lookup", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, false, apperrors.Wrap("auth.hash_password", err)
	}
	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: &hash,
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusApproved,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, createUserError(err)
	}
	s.logger.Info("bootstrap admin created", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user, true, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return apperrors.NewConflict("email already exists", map[string]any{"field": "email"})
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.Wrap("auth.check_email", err)
	}
	return nil
}

func (s *AuthService) findExternal(ctx context.Context, externalID, email string) (*domain.User, error) {
	user, err := s.users.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Wrap("auth.load_external", err)
	}
	// An email match alone proves nothing: the account must already be bound to
	// this exact external identity, and password accounts never qualify.
	user, err = s.users.GetByEmail(ctx, email)
	if err == nil {
		if user.PasswordHash != nil || user.ExternalID == nil || *user.ExternalID != externalID {
			return nil, apperrors.NewConflict("email already registered with a different sign-in method", map[string]any{"field": "email"})
		}
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Wrap("auth.load_user", err)
	}
	return nil, nil
}

func (s *AuthService) issue(user *domain.User, created bool) (*AuthResult, error) {
	result := &AuthResult{User: user, Created: created}
	if !user.IsApproved() {
		return result, nil
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Wrap("auth.generate_token", err)
	}
	result.Token = token
	result.ExpiresAt = exp
	return result, nil
}

func (s *AuthService) announceRegistration(ctx context.Context, user *domain.User) {
	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("status", string(user.Status)))
	publish(ctx, s.dispatcher, events.NewEvent(events.EventUserRegistered, 0,
		events.Actor{UserID: user.ID, Role: user.Role},
		events.UserRegisteredPayload{UserID: user.ID, Email: user.Email, Role: user.Role, Status: user.Status}))
}

func approvalError(user *domain.User) error {
	switch user.Status {
	case domain.UserStatusApproved:
		return nil
	case domain.UserStatusPending:
		return apperrors.NewForbidden("your account is pending approval from the administrator")
	case domain.UserStatusRejected:
		return apperrors.NewForbidden("your account has been rejected")
	default:
		return apperrors.NewForbidden("account status invalid")
	}
}

func createUserError(err error) error {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code == apperrors.CodeConflict {
		return apperrors.NewConflict("email already exists", domainErr.Details)
	}
	return apperrors.Wrap("auth.create_user", err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

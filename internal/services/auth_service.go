package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/mailer"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

const resetTokenTTL = time.Hour

type authService struct {
	deps *Dependencies
}

func NewAuthService(deps *Dependencies) AuthService {
	return &authService{deps: deps}
}

// ===== REGISTRATION & LOGIN =====

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	exists, err := s.deps.Repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
		Provider:     models.ProviderLocal,
	}

	if err := s.createWithProfile(ctx, user); err != nil {
		return nil, err
	}

	s.deps.Logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	publish(ctx, s.deps, events.UserRegistered, user.ID, "user", user.ID, map[string]interface{}{
		"role":     user.Role,
		"provider": user.Provider,
	})
	s.sendMail(ctx, "welcome_email", mailer.WelcomeMessage(user.Email, user.Name))

	return s.issue(user)
}

// createWithProfile stores the user and the empty profile of its role atomically
func (s *authService) createWithProfile(ctx context.Context, user *models.User) error {
	err := s.deps.Repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, user); err != nil {
			return err
		}
		switch user.Role {
		case models.RoleStudent:
			return tx.StudentProfile().Upsert(ctx, &models.StudentProfile{UserID: user.ID})
		case models.RoleEducator:
			return tx.EducatorProfile().Upsert(ctx, &models.EducatorProfile{UserID: user.ID})
		}
		return nil
	})
	if isDuplicate(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	user, err := s.deps.Repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := s.touchLogin(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *authService) touchLogin(ctx context.Context, user *models.User) error {
	now := s.deps.now()
	user.LastLoginAt = &now
	if err := s.deps.Repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	publish(ctx, s.deps, events.UserLoggedIn, user.ID, "user", user.ID, map[string]interface{}{
		"provider": user.Provider,
	})
	return nil
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.deps.JWT.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*MeResponse, error) {
	user, err := s.deps.Repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}

	resp := &MeResponse{User: user}
	switch user.Role {
	case models.RoleStudent:
		profile, err := s.deps.Repo.StudentProfile().GetByUserID(ctx, userID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		if profile != nil {
			resp.StudentProfile = profile
			resp.OnboardingCompleted = profile.OnboardingCompleted
		}
	case models.RoleEducator:
		profile, err := s.deps.Repo.EducatorProfile().GetByUserID(ctx, userID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		if profile != nil {
			resp.EducatorProfile = profile
			resp.OnboardingCompleted = profile.OnboardingCompleted
		}
	default:
		resp.OnboardingCompleted = true
	}
	return resp, nil
}

// ===== PASSWORD MANAGEMENT =====

// ForgotPassword never reveals whether the email is registered
func (s *authService) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	if err := validate(s.deps.Validator, req); err != nil {
		return err
	}

	user, err := s.deps.Repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			s.deps.Logger.Debug("Password reset requested for unknown email")
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	expires := s.deps.now().Add(resetTokenTTL)
	user.ResetTokenHash = &hash
	user.ResetTokenExpires = &expires
	if err := s.deps.Repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := strings.TrimRight(s.deps.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
	s.sendMail(ctx, "password_reset_email", mailer.PasswordResetMessage(user.Email, user.Name, link))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := validate(s.deps.Validator, req); err != nil {
		return err
	}

	user, err := s.deps.Repo.User().GetByResetTokenHash(ctx, auth.HashResetToken(req.Token), s.deps.now())
	if err != nil {
		return orNotFound(err, ErrInvalidResetToken)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetTokenHash = nil
	user.ResetTokenExpires = nil
	if err := s.deps.Repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	publish(ctx, s.deps, events.UserPasswordReset, user.ID, "user", user.ID, nil)
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	if err := validate(s.deps.Validator, req); err != nil {
		return err
	}

	user, err := s.deps.Repo.User().GetByID(ctx, userID)
	if err != nil {
		return orNotFound(err, ErrUserNotFound)
	}

	// accounts created through SSO have no password yet
	if user.PasswordHash != "" {
		if err := auth.ComparePassword(user.PasswordHash, req.CurrentPassword); err != nil {
			return validator.ValidationErrors{{
				Field:   "current_password",
				Message: "current password is incorrect",
				Rule:    "password_match",
			}}
		}
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.deps.Repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// ===== TOKEN VERIFICATION =====

type cachedActor struct {
	UserID   string          `json:"user_id"`
	Role     models.UserRole `json:"role"`
	IsActive bool            `json:"is_active"`
}

func actorCacheKey(userID string) string {
	return "actor:" + userID
}

// Authenticate verifies the token and reloads role and status so admin changes apply immediately
func (s *authService) Authenticate(ctx context.Context, token string) (*Actor, error) {
	claims, err := s.deps.JWT.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	current, err := cached(ctx, s.deps.Cache, s.deps.Cache.User, actorCacheKey(claims.UserID()), cache.UserCacheConfig.TTL,
		func() (cachedActor, error) {
			user, err := s.deps.Repo.User().GetByID(ctx, claims.UserID())
			if err != nil {
				return cachedActor{}, err
			}
			return cachedActor{UserID: user.ID, Role: user.Role, IsActive: user.IsActive}, nil
		})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !current.IsActive {
		return nil, ErrAccountInactive
	}

	return &Actor{UserID: current.UserID, Role: current.Role}, nil
}

// ===== SINGLE SIGN-ON =====

func (s *authService) SSOEnabled() bool {
	return s.deps.Identity != nil
}

func (s *authService) SSOLoginURL(state, redirectURI string) (string, error) {
	if s.deps.Identity == nil {
		return "", ErrSSONotConfigured
	}
	return s.deps.Identity.AuthCodeURL(state, redirectURI), nil
}

// SSOCallback signs in the local account matching the provider email, creating it on first login
func (s *authService) SSOCallback(ctx context.Context, code, state string) (*AuthResult, error) {
	if s.deps.Identity == nil {
		return nil, ErrSSONotConfigured
	}

	identity, err := s.deps.Identity.Exchange(ctx, code, state)
	if err != nil {
		s.deps.Logger.Warn("SSO exchange failed", utils.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := s.deps.Repo.User().GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, ErrAccountInactive
		}
	case isNotFound(err):
		user, err = s.registerExternal(ctx, identity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.touchLogin(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) registerExternal(ctx context.Context, identity *repositories.ExternalIdentity) (*models.User, error) {
	role := identity.Role
	if role != models.RoleEducator {
		role = models.RoleStudent
	}
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = strings.SplitN(identity.Email, "@", 2)[0]
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    identity.Email,
		Role:     role,
		IsActive: true,
		Provider: models.ProviderCasdoor,
	}
	if identity.AvatarURL != "" {
		avatar := identity.AvatarURL
		user.AvatarURL = &avatar
	}

	if err := s.createWithProfile(ctx, user); err != nil {
		return nil, err
	}

	s.deps.Logger.Info("User registered through SSO", "user_id", user.ID, "role", user.Role)
	publish(ctx, s.deps, events.UserRegistered, user.ID, "user", user.ID, map[string]interface{}{
		"role":     user.Role,
		"provider": user.Provider,
	})
	return user, nil
}

func (s *authService) sendMail(ctx context.Context, name string, msg mailer.Message) {
	if s.deps.Mailer == nil {
		return
	}
	background(ctx, s.deps.Logger, name, 30*time.Second, func(ctx context.Context) error {
		return s.deps.Mailer.Send(ctx, msg)
	})
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

const adminStatsKey = "admin"

type adminService struct {
	deps *Dependencies
}

func NewAdminService(deps *Dependencies) AdminService {
	return &adminService{deps: deps}
}

// ===== USERS =====

func (s *adminService) ListUsers(ctx context.Context, params *UserListParams) (*models.PaginatedResponse, error) {
	if params == nil {
		params = &UserListParams{}
	}
	if err := validate(s.deps.Validator, params); err != nil {
		return nil, err
	}

	page := pageOf(params.Page, params.Size)
	filters := repositories.UserFilters{
		IsActive: params.Active,
		Query:    strings.TrimSpace(params.Search),
		Limit:    page.Size,
		Offset:   page.Offset(),
	}
	if params.Role != "" {
		role := params.Role
		filters.Role = &role
	}

	users, total, err := s.deps.Repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return models.NewPaginatedResponse(users, len(users), total, page), nil
}

// UpdateRole changes a user's role and makes sure the profile of the new role exists
func (s *adminService) UpdateRole(ctx context.Context, actor Actor, userID string, role models.UserRole) (*models.User, error) {
	if err := validate(s.deps.Validator, &validator.UpdateRoleRequest{Role: role}); err != nil {
		return nil, err
	}
	if actor.UserID == userID {
		return nil, NewBusinessRuleError("self_role_change", "admins cannot change their own role", nil)
	}

	user, err := s.deps.Repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	if user.Role == role {
		return user, nil
	}

	user.Role = role
	err = s.deps.Repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Update(ctx, user); err != nil {
			return err
		}
		return ensureProfile(ctx, tx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.deps.Logger.Info("User role changed", "user_id", userID, "role", role, "admin_id", actor.UserID)
	s.forgetActor(ctx, userID)
	return user, nil
}

func (s *adminService) UpdateStatus(ctx context.Context, actor Actor, userID string, active bool) (*models.User, error) {
	if actor.UserID == userID && !active {
		return nil, NewBusinessRuleError("self_deactivate", "admins cannot deactivate themselves", nil)
	}

	user, err := s.deps.Repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}

	user.IsActive = active
	if err := s.deps.Repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	s.deps.Logger.Info("User status changed", "user_id", userID, "active", active, "admin_id", actor.UserID)
	s.forgetActor(ctx, userID)
	return user, nil
}

// DeleteUser soft deletes an account
func (s *adminService) DeleteUser(ctx context.Context, actor Actor, userID string) error {
	if actor.UserID == userID {
		return NewBusinessRuleError("self_delete", "admins cannot delete their own account", nil)
	}
	if err := s.deps.Repo.User().Delete(ctx, userID); err != nil {
		return orNotFound(err, ErrUserNotFound)
	}

	s.deps.Logger.Info("User deleted", "user_id", userID, "admin_id", actor.UserID)
	s.forgetActor(ctx, userID)
	cache.SafeInvalidatePattern(ctx, s.deps.Cache.Stats, "*")
	return nil
}

func (s *adminService) VerifyEducator(ctx context.Context, educatorID string, verified bool) (*models.EducatorProfile, error) {
	user, err := s.deps.Repo.User().GetByID(ctx, educatorID)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	if user.Role != models.RoleEducator {
		return nil, ErrUserNotFound
	}

	profile, err := s.deps.Repo.EducatorProfile().GetByUserID(ctx, educatorID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		profile = &models.EducatorProfile{UserID: educatorID}
	}

	profile.IsVerified = verified
	if err := s.deps.Repo.EducatorProfile().Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to verify educator: %w", err)
	}
	return profile, nil
}

// ===== REPORTING =====

func (s *adminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	return cached(ctx, s.deps.Cache, s.deps.Cache.Stats, adminStatsKey, cache.StatsCacheConfig.TTL,
		func() (*models.AdminStats, error) {
			stats, err := s.deps.Repo.Dashboard().AdminStats(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to compute stats: %w", err)
			}
			stats.GeneratedAt = s.deps.now()
			return stats, nil
		})
}

func (s *adminService) Activity(ctx context.Context, params *ActivityListParams) (*models.PaginatedResponse, error) {
	if err := s.deps.requireDocuments(); err != nil {
		return nil, err
	}
	if params == nil {
		params = &ActivityListParams{}
	}
	if err := validate(s.deps.Validator, params); err != nil {
		return nil, err
	}

	page := pageOf(params.Page, params.Size)
	entries, total, err := s.deps.Documents.Activity().List(ctx, repositories.ActivityFilters{
		UserID: params.UserID,
		Action: params.Action,
		Limit:  page.Size,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return models.NewPaginatedResponse(entries, len(entries), total, page), nil
}

// forgetActor drops the cached role and status used by Authenticate
func (s *adminService) forgetActor(ctx context.Context, userID string) {
	cache.SafeDelete(ctx, s.deps.Cache.User, actorCacheKey(userID))
}

func ensureProfile(ctx context.Context, tx repositories.Repository, user *models.User) error {
	switch user.Role {
	case models.RoleStudent:
		if _, err := tx.StudentProfile().GetByUserID(ctx, user.ID); isNotFound(err) {
			return tx.StudentProfile().Upsert(ctx, &models.StudentProfile{UserID: user.ID})
		} else if err != nil {
			return err
		}
	case models.RoleEducator:
		if _, err := tx.EducatorProfile().GetByUserID(ctx, user.ID); isNotFound(err) {
			return tx.EducatorProfile().Upsert(ctx, &models.EducatorProfile{UserID: user.ID})
		} else if err != nil {
			return err
		}
	}
	return nil
}

package service

import (
	"context"
	"fmt"

	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/repository"
)

// AccessService is the role registry. The role column on the user record is
// the single source of truth for admin and innovator membership; every
// mutating operation here requires an admin caller.
type AccessService struct {
	repo repository.Repository
}

// NewAccessService creates a new AccessService
func NewAccessService(repo repository.Repository) *AccessService {
	return &AccessService{repo: repo}
}

// RoleOf returns the effective role for an identity. Unknown identities are
// plain users.
func (s *AccessService) RoleOf(ctx context.Context, userID string) (models.Role, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return models.RoleUser, nil
	}
	return user.Role, nil
}

// EnsureAdmin fails with NotAuthorized unless the caller is an admin.
func (s *AccessService) EnsureAdmin(ctx context.Context, callerID string) error {
	role, err := s.RoleOf(ctx, callerID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return models.ErrNotAuthorized("caller is not an admin")
	}
	return nil
}

// EnsureAdminOrInnovator fails with InsufficientPermissions unless the caller
// is an admin or an innovator.
func (s *AccessService) EnsureAdminOrInnovator(ctx context.Context, callerID string) error {
	role, err := s.RoleOf(ctx, callerID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin && role != models.RoleInnovator {
		return models.ErrInsufficientPermissions("caller is not an admin or innovator")
	}
	return nil
}

// AddAdmin promotes a user into the admin set.
func (s *AccessService) AddAdmin(ctx context.Context, callerID, userID string) error {
	if err := s.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}
	return s.setRole(ctx, userID, models.RoleAdmin)
}

// RemoveAdmin demotes an admin back to a plain user. Removing the last admin
// (including self-removal by the sole admin) is rejected; the check and the
// demotion run as one repository operation so concurrent demotions cannot
// both pass it.
func (s *AccessService) RemoveAdmin(ctx context.Context, callerID, userID string) error {
	if err := s.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}

	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return nil
	}

	return s.repo.DemoteAdmin(ctx, userID, models.RoleUser)
}

// SetRole assigns any role. Demoting the last admin is rejected, so the admin
// set can never become empty through this path either.
func (s *AccessService) SetRole(ctx context.Context, callerID, userID string, role models.Role) error {
	if err := s.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return models.ErrNotFound("user %s not found", userID)
	}

	if user.Role == models.RoleAdmin && role != models.RoleAdmin {
		return s.repo.DemoteAdmin(ctx, userID, role)
	}
	return s.setRole(ctx, userID, role)
}

// AddInnovator adds a user to the innovator set.
func (s *AccessService) AddInnovator(ctx context.Context, callerID, userID string) error {
	if err := s.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}

	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		return err
	}
	// Promoting an admin to innovator goes through SetRole, which checks the
	// last-admin invariant.
	if role == models.RoleAdmin {
		return s.SetRole(ctx, callerID, userID, models.RoleInnovator)
	}
	return s.setRole(ctx, userID, models.RoleInnovator)
}

// RemoveInnovator demotes an innovator back to a plain user.
func (s *AccessService) RemoveInnovator(ctx context.Context, callerID, userID string) error {
	if err := s.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}

	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		return err
	}
	if role != models.RoleInnovator {
		return nil
	}
	return s.repo.UpdateUserRole(ctx, userID, models.RoleUser)
}

// ListUsers returns the full user directory. Admin only.
func (s *AccessService) ListUsers(ctx context.Context, callerID string) ([]models.User, error) {
	if err := s.EnsureAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

// ListInnovators returns the users currently holding the innovator role.
// Admin only.
func (s *AccessService) ListInnovators(ctx context.Context, callerID string) ([]models.User, error) {
	users, err := s.ListUsers(ctx, callerID)
	if err != nil {
		return nil, err
	}
	innovators := make([]models.User, 0)
	for _, u := range users {
		if u.Role == models.RoleInnovator {
			innovators = append(innovators, u)
		}
	}
	return innovators, nil
}

func (s *AccessService) setRole(ctx context.Context, userID string, role models.Role) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return models.ErrNotFound("user %s not found", userID)
	}
	return s.repo.UpdateUserRole(ctx, userID, role)
}

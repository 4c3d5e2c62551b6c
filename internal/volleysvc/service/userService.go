package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/volleyhub/volley-services/internal/volleysvc/apperr"
	"github.com/volleyhub/volley-services/internal/volleysvc/models"
)

// UserStore is the slice of the store layer the user service needs.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	UpdateRole(ctx context.Context, userID, role string, approvedAt *time.Time) (bool, error)
}

type UserService struct {
	userStore UserStore
}

func NewUserService(userStore UserStore) *UserService {
	return &UserService{userStore: userStore}
}

// GetOrCreateUser resolves the signed-in principal to a stored user,
// creating a guest record on first sign-in. The identity fields come from
// the provider; the role never does.
func (s *UserService) GetOrCreateUser(ctx context.Context, p models.Principal) (*models.User, error) {
	existing, err := s.userStore.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, apperr.Upstreamf("get user: %v", err)
	}
	if existing != nil {
		return existing, nil
	}

	u := models.User{
		ID:        p.UserID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      models.RoleGuest,
		PhotoURL:  p.PhotoURL,
		CreatedAt: time.Now(),
	}
	if u.Name == "" {
		u.Name = p.Email
	}

	if err := s.userStore.Create(ctx, u); err != nil {
		return nil, apperr.Upstreamf("create user: %v", err)
	}

	log.Infof("created guest user %s (%s)", u.ID, u.Email)
	return &u, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Upstreamf("get user: %v", err)
	}
	if u == nil {
		return nil, apperr.NotFoundf("user %s", userID)
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, apperr.Upstreamf("list users: %v", err)
	}
	return users, nil
}

// ListPendingUsers returns the guests awaiting approval.
func (s *UserService) ListPendingUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userStore.ListByRole(ctx, models.RoleGuest)
	if err != nil {
		return nil, apperr.Upstreamf("list pending users: %v", err)
	}
	return users, nil
}

// ChangeRole applies an administrator-driven role transition. The actor
// must be an admin and may not change their own role. Leaving guest stamps
// the approval time; no other transition touches it.
func (s *UserService) ChangeRole(ctx context.Context, actorID, targetID, newRole string) (*models.User, error) {
	actor, err := s.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, apperr.ErrPermissionDenied
	}
	if actorID == targetID {
		return nil, apperr.ErrPermissionDenied
	}

	target, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !legalRoleChange(target.Role, newRole) {
		return nil, apperr.Validationf("role", "cannot move user from %s to %s", target.Role, newRole)
	}

	var approvedAt *time.Time
	if target.Role == models.RoleGuest {
		now := time.Now()
		approvedAt = &now
	}

	matched, err := s.userStore.UpdateRole(ctx, targetID, newRole, approvedAt)
	if err != nil {
		return nil, apperr.Upstreamf("update role: %v", err)
	}
	if !matched {
		return nil, apperr.NotFoundf("user %s", targetID)
	}

	log.Infof("user %s role changed %s -> %s by %s", targetID, target.Role, newRole, actorID)

	target.Role = newRole
	if approvedAt != nil {
		target.ApprovedAt = approvedAt
	}
	return target, nil
}

// legalRoleChange encodes the approval ladder: guests are approved into
// cherry or user, cherries graduate to user, and anyone below admin can be
// escalated straight to admin.
func legalRoleChange(from, to string) bool {
	switch to {
	case models.RoleAdmin:
		return from != models.RoleAdmin
	case models.RoleUser:
		return from == models.RoleGuest || from == models.RoleCherry
	case models.RoleCherry:
		return from == models.RoleGuest
	}
	return false
}

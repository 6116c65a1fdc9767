package service

import (
	"context"
	"fmt"

	"taskbot/internal/cache"
	"taskbot/internal/model"
	"taskbot/internal/repository"
)

// UserService owns user records and the member/admin role transitions.
type UserService struct {
	users repository.UserRepositoryInterface
	cache cache.Cache
}

func NewUserService(users repository.UserRepositoryInterface, c cache.Cache) *UserService {
	return &UserService{
		users: users,
		cache: c,
	}
}

// Member is one (id, display name) pair for bulk import.
type Member struct {
	ID       string `json:"id" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// GetOrCreate returns the user, lazily provisioning a member row on first
// sight. The bool reports whether the row was created by this call.
func (s *UserService) GetOrCreate(ctx context.Context, id, username string) (*model.User, bool, error) {
	return s.users.GetOrCreate(ctx, id, username)
}

// Promote raises the target from member to admin. The actor must already be
// an admin; actors unseen so far are provisioned as members first, which
// denies them.
func (s *UserService) Promote(ctx context.Context, actorID, actorName, targetID string) (*model.User, error) {
	target, err := s.changeRole(ctx, actorID, actorName, targetID, model.RoleMember, model.RoleAdmin, ErrAlreadyAdmin)
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Demote is the structural mirror of Promote: the target must currently be
// an admin.
func (s *UserService) Demote(ctx context.Context, actorID, actorName, targetID string) (*model.User, error) {
	target, err := s.changeRole(ctx, actorID, actorName, targetID, model.RoleAdmin, model.RoleMember, ErrNotAdmin)
	if err != nil {
		return nil, err
	}
	return target, nil
}

// BulkAdd upserts every member. Existing rows keep their role and get a
// refreshed username; new rows default to member. Admin only.
func (s *UserService) BulkAdd(ctx context.Context, actorID, actorName string, members []Member) (int, error) {
	actor, _, err := s.users.GetOrCreate(ctx, actorID, actorName)
	if err != nil {
		return 0, fmt.Errorf("fetch actor: %w", err)
	}
	if !actor.IsAdmin() {
		return 0, ErrPermissionDenied
	}

	users := make([]model.User, 0, len(members))
	for _, m := range members {
		users = append(users, model.User{
			ID:       m.ID,
			Username: m.Username,
			Role:     model.RoleMember,
		})
	}

	if err := s.users.BulkUpsert(ctx, users); err != nil {
		return 0, fmt.Errorf("bulk upsert users: %w", err)
	}
	return len(users), nil
}

// changeRole implements both role transitions: fetch-or-create the actor,
// require admin, require the target to currently hold fromRole, flip it.
func (s *UserService) changeRole(ctx context.Context, actorID, actorName, targetID, fromRole, toRole string, wrongStateErr error) (*model.User, error) {
	actor, _, err := s.users.GetOrCreate(ctx, actorID, actorName)
	if err != nil {
		return nil, fmt.Errorf("fetch actor: %w", err)
	}
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("fetch target: %w", err)
	}
	if target == nil {
		return nil, repository.ErrUserNotFound
	}
	if target.Role != fromRole {
		return nil, wrongStateErr
	}

	if err := s.users.UpdateRole(ctx, targetID, toRole); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	target.Role = toRole

	// Роль меняет вид обзора для цели, сбрасываем ее записи
	if err := s.cache.Del(ctx, cache.ListKey(targetID), cache.OverviewKey(targetID)); err != nil {
		return nil, fmt.Errorf("invalidate cache: %w", err)
	}

	return target, nil
}

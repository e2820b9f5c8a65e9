package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shopit/internal/apperr"
	"github.com/Skotchmaster/shopit/internal/events"
	"github.com/Skotchmaster/shopit/internal/logging"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/repo"
)

// UserAdminService backs the /admin/users endpoints. Deleting a user leaves
// their orders and reviews in place.
type UserAdminService struct {
	users  repo.UserRepository
	events events.Publisher
}

func NewUserAdminService(users repo.UserRepository, pub events.Publisher) *UserAdminService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &UserAdminService{users: users, events: pub}
}

type AdminUserUpdate struct {
	Name  string
	Email string
	Role  string
}

func userNotFound(id string) error {
	return apperr.NotFound(fmt.Sprintf("User does not found with id: %s", id))
}

func (s *UserAdminService) List(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *UserAdminService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, userNotFound(id)
	}
	return u, err
}

func (s *UserAdminService) Update(ctx context.Context, id string, in AdminUserUpdate) (*models.User, error) {
	var params repo.UpdateUserParams
	if name := strings.TrimSpace(in.Name); name != "" {
		params.Name = &name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		params.Email = &email
	}
	if in.Role != "" {
		if in.Role != models.RoleUser && in.Role != models.RoleAdmin {
			return nil, apperr.Validation(fmt.Sprintf("Role (%s) is not valid", in.Role))
		}
		role := in.Role
		params.Role = &role
	}

	u, err := s.users.UpdateUser(ctx, id, params)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, userNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("admin_user_updated", "target_user_id", id)
	return u, nil
}

func (s *UserAdminService) Delete(ctx context.Context, id string) error {
	err := s.users.DeleteUser(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return userNotFound(id)
	}
	if err != nil {
		return err
	}
	events.Emit(ctx, s.events, events.TopicUsers, "user.deleted", id, nil)
	return nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

type UserService struct {
	Users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{Users: users}
}

// UserUpdate carries the profile fields a caller supplied; nil means untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

func (s *UserService) GetSelf(ctx context.Context, callerID uuid.UUID) (models.UserView, error) {
	user, err := s.Users.GetUserByID(ctx, callerID)
	if err != nil {
		return models.UserView{}, storeError(err, "User not found", "Failed to load user")
	}
	return user.View(), nil
}

func (s *UserService) List(ctx context.Context) ([]models.UserView, error) {
	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, internalError("Failed to list users", err)
	}
	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

func (s *UserService) GetByID(ctx context.Context, rawID string) (models.UserView, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return models.UserView{}, notFoundError("User not found")
	}
	user, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return models.UserView{}, storeError(err, "User not found", "Failed to load user")
	}
	return user.View(), nil
}

// Update overwrites the provided profile fields. Callers may only edit themselves.
func (s *UserService) Update(ctx context.Context, callerID uuid.UUID, rawID string, in UserUpdate) (models.UserView, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return models.UserView{}, notFoundError("User not found")
	}
	if id != callerID {
		return models.UserView{}, forbiddenError("You can only update your own profile")
	}

	user, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return models.UserView{}, storeError(err, "User not found", "Failed to load user")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return models.UserView{}, validationError("Name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return models.UserView{}, validationError("Email cannot be empty")
		}
		user.Email = email
	}

	if err := s.Users.SaveUser(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.UserView{}, conflictError("Email is already in use", err)
		}
		return models.UserView{}, storeError(err, "User not found", "Failed to update user")
	}
	return user.View(), nil
}

// Delete removes the account. Assets owned by it are left in place.
func (s *UserService) Delete(ctx context.Context, callerID uuid.UUID, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return notFoundError("User not found")
	}
	if id != callerID {
		return forbiddenError("You can only delete your own account")
	}
	if err := s.Users.DeleteUser(ctx, id); err != nil {
		return storeError(err, "User not found", "Failed to delete user")
	}
	return nil
}

package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository persists user accounts. Email uniqueness is enforced by the
// implementation and reported as ErrDuplicate.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// AssetRepository persists asset records. Deletes are permanent.
type AssetRepository interface {
	CreateAsset(ctx context.Context, asset *models.Asset) error
	GetAsset(ctx context.Context, id uuid.UUID) (models.Asset, error)
	ListAssets(ctx context.Context) ([]models.Asset, error)
	SaveAsset(ctx context.Context, asset *models.Asset) error
	DeleteAsset(ctx context.Context, id uuid.UUID) error
	CountAssets(ctx context.Context) (int64, error)
}

// Store bundles both repositories behind one backend.
type Store interface {
	UserRepository
	AssetRepository
	Close() error
}

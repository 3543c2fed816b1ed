package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(user).Error)
}

func (s *GormStore) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return user, translate(err)
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, translate(err)
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).Order("created_at asc").Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) SaveUser(ctx context.Context, user *models.User) error {
	return s.update(ctx, user)
}

// update overwrites every column of an existing row. Unlike Save it never inserts.
func (s *GormStore) update(ctx context.Context, value any) error {
	res := s.DB.WithContext(ctx).Model(value).Select("*").Omit("created_at").Updates(value)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	return translate(s.DB.WithContext(ctx).Create(asset).Error)
}

func (s *GormStore) GetAsset(ctx context.Context, id uuid.UUID) (models.Asset, error) {
	var asset models.Asset
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&asset).Error
	return asset, translate(err)
}

func (s *GormStore) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	err := s.DB.WithContext(ctx).Order("created_at asc").Find(&assets).Error
	return assets, translate(err)
}

func (s *GormStore) SaveAsset(ctx context.Context, asset *models.Asset) error {
	return s.update(ctx, asset)
}

func (s *GormStore) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&models.Asset{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CountAssets(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Asset{}).Count(&n).Error
	return n, translate(err)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

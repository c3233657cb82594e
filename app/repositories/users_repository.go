package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"gorm.io/gorm"
)

type UserPatch struct {
	Email        *string `patch:"email"`
	PhoneNumber  *string `patch:"phone_number"`
	PasswordHash *string `patch:"password_hash"`
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsernameAndRole(ctx context.Context, username string, roleID int) (*models.User, error)
	Update(ctx context.Context, id uint, patch UserPatch) (int64, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) FindByUsernameAndRole(ctx context.Context, username string, roleID int) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND role_id = ?", username, roleID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, id uint, patch UserPatch) (int64, error) {
	return applyPatch(r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id), patch)
}

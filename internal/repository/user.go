package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type userRepository struct {
	database *gorm.DB
}

func (u *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := u.database.WithContext(ctx).First(&user, id).Error
	return user, translate(err)
}

func (u *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := u.database.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, translate(err)
}

func (u *userRepository) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	q := u.database.WithContext(ctx).Model(&models.User{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := paginate(q, page, limit).Order("id desc").Find(&users).Error
	return users, total, err
}

func (u *userRepository) Create(ctx context.Context, user *models.User) error {
	return u.database.WithContext(ctx).Create(user).Error
}

func (u *userRepository) Update(ctx context.Context, user *models.User) error {
	return u.database.WithContext(ctx).Save(user).Error
}

func (u *userRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := u.database.WithContext(ctx).Model(&models.User{}).Count(&total).Error
	return total, err
}

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, page, limit int) ([]models.User, int64, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	CountAll(ctx context.Context) (int64, error)
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepository{database: db}
}

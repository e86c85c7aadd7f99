package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type categoryRepository struct {
	database *gorm.DB
}

func (c *categoryRepository) GetByID(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	err := c.database.WithContext(ctx).First(&category, id).Error
	return category, translate(err)
}

func (c *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := c.database.WithContext(ctx).Order("name asc").Find(&categories).Error
	return categories, err
}

func (c *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return c.database.WithContext(ctx).Create(category).Error
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id uint) (models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepository{database: db}
}

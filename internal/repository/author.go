package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type authorRepository struct {
	database *gorm.DB
}

func (a *authorRepository) GetByID(ctx context.Context, id uint) (models.Author, error) {
	var author models.Author
	err := a.database.WithContext(ctx).First(&author, id).Error
	return author, translate(err)
}

func (a *authorRepository) List(ctx context.Context) ([]models.Author, error) {
	var authors []models.Author
	err := a.database.WithContext(ctx).Order("name asc").Find(&authors).Error
	return authors, err
}

func (a *authorRepository) Create(ctx context.Context, author *models.Author) error {
	return a.database.WithContext(ctx).Create(author).Error
}

type AuthorRepository interface {
	GetByID(ctx context.Context, id uint) (models.Author, error)
	List(ctx context.Context) ([]models.Author, error)
	Create(ctx context.Context, author *models.Author) error
}

func NewAuthorRepo(db *gorm.DB) AuthorRepository {
	return &authorRepository{database: db}
}

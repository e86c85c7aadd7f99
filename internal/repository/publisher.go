package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type publisherRepository struct {
	database *gorm.DB
}

func (p *publisherRepository) GetByID(ctx context.Context, id uint) (models.Publisher, error) {
	var publisher models.Publisher
	err := p.database.WithContext(ctx).First(&publisher, id).Error
	return publisher, translate(err)
}

func (p *publisherRepository) List(ctx context.Context) ([]models.Publisher, error) {
	var publishers []models.Publisher
	err := p.database.WithContext(ctx).Order("name asc").Find(&publishers).Error
	return publishers, err
}

func (p *publisherRepository) Create(ctx context.Context, publisher *models.Publisher) error {
	return p.database.WithContext(ctx).Create(publisher).Error
}

type PublisherRepository interface {
	GetByID(ctx context.Context, id uint) (models.Publisher, error)
	List(ctx context.Context) ([]models.Publisher, error)
	Create(ctx context.Context, publisher *models.Publisher) error
}

func NewPublisherRepo(db *gorm.DB) PublisherRepository {
	return &publisherRepository{database: db}
}

package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/kanenguyen264-cyber/do-an/internal/domain"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

// CatalogService owns books, authors, publishers and categories. The
// availability counter itself is only ever moved by the borrowing ledger;
// catalog updates may resize totalCopies and clamp the counter into range.
type CatalogService struct {
	books      repository.BookRepository
	authors    repository.AuthorRepository
	publishers repository.PublisherRepository
	categories repository.CategoryRepository
}

func NewCatalogService(
	books repository.BookRepository,
	authors repository.AuthorRepository,
	publishers repository.PublisherRepository,
	categories repository.CategoryRepository,
) *CatalogService {
	return &CatalogService{
		books:      books,
		authors:    authors,
		publishers: publishers,
		categories: categories,
	}
}

type CreateBookInput struct {
	Title       string
	ISBN        string
	TotalCopies int
	CategoryID  *uint
	PublisherID *uint
	AuthorIDs   []uint
}

func (c *CatalogService) CreateBook(ctx context.Context, in CreateBookInput) (models.Book, error) {
	if in.TotalCopies < 1 {
		return models.Book{}, fmt.Errorf("totalCopies must be at least 1: %w", domain.ErrInvalidInput)
	}
	authors := make([]models.Author, 0, len(in.AuthorIDs))
	for _, id := range lo.Uniq(in.AuthorIDs) {
		author, err := c.authors.GetByID(ctx, id)
		if err != nil {
			return models.Book{}, fmt.Errorf("author %d: %w", id, err)
		}
		authors = append(authors, author)
	}
	book := models.Book{
		Title:           in.Title,
		ISBN:            in.ISBN,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
		Status:          models.BookAvailable,
		CategoryID:      in.CategoryID,
		PublisherID:     in.PublisherID,
		Authors:         authors,
	}
	if err := c.books.Create(ctx, &book); err != nil {
		return models.Book{}, err
	}
	return c.books.GetByID(ctx, book.ID)
}

func (c *CatalogService) GetBook(ctx context.Context, id uint) (models.Book, error) {
	return c.books.GetByID(ctx, id)
}

func (c *CatalogService) ListBooks(ctx context.Context, f repository.BookFilter) ([]models.Book, int64, error) {
	return c.books.List(ctx, f)
}

type UpdateBookInput struct {
	Title       *string
	TotalCopies *int
	CategoryID  *uint
	PublisherID *uint
	Status      *models.BookStatus
}

func (c *CatalogService) UpdateBook(ctx context.Context, id uint, in UpdateBookInput) (models.Book, error) {
	book, err := c.books.GetByID(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	if in.Title != nil {
		book.Title = *in.Title
	}
	if in.TotalCopies != nil {
		if *in.TotalCopies < 1 {
			return models.Book{}, fmt.Errorf("totalCopies must be at least 1: %w", domain.ErrInvalidInput)
		}
		// Resizing the stock keeps the number of checked-out copies fixed.
		borrowed := book.TotalCopies - book.AvailableCopies
		book.TotalCopies = *in.TotalCopies
		book.AvailableCopies = *in.TotalCopies - borrowed
		if book.AvailableCopies < 0 {
			book.AvailableCopies = 0
		}
	}
	if in.CategoryID != nil {
		book.CategoryID = in.CategoryID
	}
	if in.PublisherID != nil {
		book.PublisherID = in.PublisherID
	}
	if in.Status != nil {
		book.Status = *in.Status
	}
	if err := c.books.Update(ctx, &book); err != nil {
		return models.Book{}, err
	}
	return c.books.GetByID(ctx, id)
}

func (c *CatalogService) DeleteBook(ctx context.Context, id uint) error {
	if _, err := c.books.GetByID(ctx, id); err != nil {
		return err
	}
	return c.books.Delete(ctx, id)
}

func (c *CatalogService) CreateAuthor(ctx context.Context, author *models.Author) error {
	return c.authors.Create(ctx, author)
}

func (c *CatalogService) ListAuthors(ctx context.Context) ([]models.Author, error) {
	return c.authors.List(ctx)
}

func (c *CatalogService) CreatePublisher(ctx context.Context, publisher *models.Publisher) error {
	return c.publishers.Create(ctx, publisher)
}

func (c *CatalogService) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	return c.publishers.List(ctx)
}

func (c *CatalogService) CreateCategory(ctx context.Context, category *models.Category) error {
	return c.categories.Create(ctx, category)
}

func (c *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return c.categories.List(ctx)
}

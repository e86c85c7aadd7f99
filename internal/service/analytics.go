package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

type DashboardStats struct {
	TotalBooks        int64 `json:"totalBooks"`
	TotalUsers        int64 `json:"totalUsers"`
	TotalBorrowings   int64 `json:"totalBorrowings"`
	ActiveBorrowings  int64 `json:"activeBorrowings"`
	OverdueBorrowings int64 `json:"overdueBorrowings"`
}

type PopularBook struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	ISBN        string `json:"isbn"`
	BorrowCount int    `json:"borrowCount"`
	Category    string `json:"category,omitempty"`
}

type AnalyticsService struct {
	books      repository.BookRepository
	users      repository.UserRepository
	borrowings repository.BorrowingRepository
}

func NewAnalyticsService(
	books repository.BookRepository,
	users repository.UserRepository,
	borrowings repository.BorrowingRepository,
) *AnalyticsService {
	return &AnalyticsService{books: books, users: users, borrowings: borrowings}
}

func (a *AnalyticsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	var err error
	if stats.TotalBooks, err = a.books.CountAll(ctx); err != nil {
		return stats, err
	}
	if stats.TotalUsers, err = a.users.CountAll(ctx); err != nil {
		return stats, err
	}
	if stats.TotalBorrowings, err = a.borrowings.CountAll(ctx); err != nil {
		return stats, err
	}
	if stats.ActiveBorrowings, err = a.borrowings.CountByStatuses(ctx, models.ActiveBorrowingStatuses); err != nil {
		return stats, err
	}
	if stats.OverdueBorrowings, err = a.borrowings.CountByStatuses(ctx, []models.BorrowingStatus{models.BorrowingOverdue}); err != nil {
		return stats, err
	}
	return stats, nil
}

func (a *AnalyticsService) PopularBooks(ctx context.Context, limit int) ([]PopularBook, error) {
	books, err := a.books.ListPopular(ctx, limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(books, func(book models.Book, _ int) PopularBook {
		p := PopularBook{
			ID:          book.ID,
			Title:       book.Title,
			ISBN:        book.ISBN,
			BorrowCount: book.BorrowCount,
		}
		if book.Category != nil {
			p.Category = book.Category.Name
		}
		return p
	}), nil
}

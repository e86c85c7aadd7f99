package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type ReservationFilter struct {
	UserID uint
	BookID uint
	Status models.ReservationStatus
	Page   int
	Limit  int
}

type reservationRepository struct {
	database *gorm.DB
}

func (r *reservationRepository) GetByID(ctx context.Context, id uint) (models.Reservation, error) {
	var reservation models.Reservation
	err := r.database.WithContext(ctx).
		Preload("Book").Preload("User").
		First(&reservation, id).Error
	return reservation, translate(err)
}

func (r *reservationRepository) GetForUpdate(tx *gorm.DB, id uint) (models.Reservation, error) {
	var reservation models.Reservation
	err := lockForUpdate(tx).First(&reservation, id).Error
	return reservation, translate(err)
}

func (r *reservationRepository) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, int64, error) {
	q := r.database.WithContext(ctx).Model(&models.Reservation{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.BookID != 0 {
		q = q.Where("book_id = ?", f.BookID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reservations []models.Reservation
	err := paginate(q, f.Page, f.Limit).
		Preload("Book").Preload("User").
		Order("queue_position asc").Find(&reservations).Error
	return reservations, total, err
}

func (r *reservationRepository) Create(tx *gorm.DB, reservation *models.Reservation) error {
	return tx.Create(reservation).Error
}

func (r *reservationRepository) Save(tx *gorm.DB, reservation *models.Reservation) error {
	return tx.Save(reservation).Error
}

func (r *reservationRepository) FindPendingByUserAndBook(ctx context.Context, userID, bookID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.database.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, models.ReservationPending).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reservation, nil
}

// CountPending locks the pending rows of the book so two concurrent reserves
// cannot hand out the same queue position.
func (r *reservationRepository) CountPending(tx *gorm.DB, bookID uint) (int64, error) {
	var total int64
	err := lockForUpdate(tx).Model(&models.Reservation{}).
		Where("book_id = ? AND status = ?", bookID, models.ReservationPending).
		Count(&total).Error
	return total, err
}

// ListPendingOrdered returns the book's PENDING reservations in original
// reservation order, the order queue positions are renumbered in.
func (r *reservationRepository) ListPendingOrdered(tx *gorm.DB, bookID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := lockForUpdate(tx).
		Where("book_id = ? AND status = ?", bookID, models.ReservationPending).
		Order("reservation_date asc, id asc").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepository) ListExpiredReady(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.database.WithContext(ctx).
		Preload("Book").
		Where("status = ? AND expiry_date < ?", models.ReservationReady, now).
		Find(&reservations).Error
	return reservations, err
}

type ReservationRepository interface {
	GetByID(ctx context.Context, id uint) (models.Reservation, error)
	GetForUpdate(tx *gorm.DB, id uint) (models.Reservation, error)
	List(ctx context.Context, f ReservationFilter) ([]models.Reservation, int64, error)
	Create(tx *gorm.DB, reservation *models.Reservation) error
	Save(tx *gorm.DB, reservation *models.Reservation) error
	FindPendingByUserAndBook(ctx context.Context, userID, bookID uint) (*models.Reservation, error)
	CountPending(tx *gorm.DB, bookID uint) (int64, error)
	ListPendingOrdered(tx *gorm.DB, bookID uint) ([]models.Reservation, error)
	ListExpiredReady(ctx context.Context, now time.Time) ([]models.Reservation, error)
}

func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepository{database: db}
}

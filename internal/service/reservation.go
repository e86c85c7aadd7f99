package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/domain"
	"github.com/kanenguyen264-cyber/do-an/internal/log"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

// ReservationService keeps a FIFO queue per book. Queue positions among
// PENDING reservations are always a contiguous 1..N sequence in original
// reservation order; any operation that removes a PENDING row renumbers the
// remainder in the same transaction.
type ReservationService struct {
	db           *gorm.DB
	reservations repository.ReservationRepository
	books        repository.BookRepository
	users        repository.UserRepository
	configs      repository.SystemConfigRepository
	notifier     *NotificationService
}

func NewReservationService(
	db *gorm.DB,
	reservations repository.ReservationRepository,
	books repository.BookRepository,
	users repository.UserRepository,
	configs repository.SystemConfigRepository,
	notifier *NotificationService,
) *ReservationService {
	return &ReservationService{
		db:           db,
		reservations: reservations,
		books:        books,
		users:        users,
		configs:      configs,
		notifier:     notifier,
	}
}

func (s *ReservationService) Get(ctx context.Context, id uint) (models.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

func (s *ReservationService) List(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, int64, error) {
	return s.reservations.List(ctx, f)
}

// Reserve appends the user to the book's queue. Position assignment and row
// creation share a transaction so concurrent reserves cannot collide.
func (s *ReservationService) Reserve(ctx context.Context, userID, bookID uint) (models.Reservation, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("user %d: %w", userID, err)
	}
	if user.Status != models.UserActive {
		return models.Reservation{}, fmt.Errorf("user %d: %w", userID, domain.ErrUserSuspended)
	}
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("book %d: %w", bookID, err)
	}
	existing, err := s.reservations.FindPendingByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return models.Reservation{}, err
	}
	if existing != nil {
		return models.Reservation{}, fmt.Errorf("reservation %d: %w", existing.ID, domain.ErrDuplicatePending)
	}
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return models.Reservation{}, err
	}

	var reservation models.Reservation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.reservations.CountPending(tx, bookID)
		if err != nil {
			return err
		}
		now := time.Now()
		reservation = models.Reservation{
			UserID:          userID,
			BookID:          bookID,
			Status:          models.ReservationPending,
			QueuePosition:   int(count) + 1,
			ReservationDate: now,
			ExpiryDate:      now.AddDate(0, 0, cfg.ReservationDays),
		}
		return s.reservations.Create(tx, &reservation)
	})
	if err != nil {
		return models.Reservation{}, err
	}

	s.notifier.Emit(ctx, userID, models.NotifyGeneral,
		"Reservation placed",
		fmt.Sprintf("You are number %d in the queue for %q.", reservation.QueuePosition, book.Title))
	return s.reservations.GetByID(ctx, reservation.ID)
}

// Cancel removes the requester's own PENDING reservation and compacts the
// queue behind it.
func (s *ReservationService) Cancel(ctx context.Context, id, requestingUserID uint) (models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		reservation, err = s.reservations.GetForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("reservation %d: %w", id, err)
		}
		if reservation.UserID != requestingUserID {
			return fmt.Errorf("reservation %d: %w", id, domain.ErrNotOwner)
		}
		if reservation.Status != models.ReservationPending {
			return fmt.Errorf("reservation %d is %s: %w", id, reservation.Status, domain.ErrInvalidState)
		}
		reservation.Status = models.ReservationCancelled
		if err := s.reservations.Save(tx, &reservation); err != nil {
			return err
		}
		return s.compactQueue(tx, reservation.BookID)
	})
	if err != nil {
		return models.Reservation{}, err
	}
	return s.reservations.GetByID(ctx, id)
}

// MarkReady hands the next free copy to a PENDING reservation.
func (s *ReservationService) MarkReady(ctx context.Context, id uint) (models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		reservation, err = s.reservations.GetForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("reservation %d: %w", id, err)
		}
		if reservation.Status != models.ReservationPending {
			return fmt.Errorf("reservation %d is %s: %w", id, reservation.Status, domain.ErrInvalidState)
		}
		now := time.Now()
		reservation.Status = models.ReservationReady
		reservation.NotifiedDate = &now
		if err := s.reservations.Save(tx, &reservation); err != nil {
			return err
		}
		return s.compactQueue(tx, reservation.BookID)
	})
	if err != nil {
		return models.Reservation{}, err
	}

	full, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return models.Reservation{}, err
	}
	title := ""
	if full.Book != nil {
		title = full.Book.Title
	}
	s.notifier.Emit(ctx, full.UserID, models.NotifyReservationReady,
		"Reserved book available",
		fmt.Sprintf("Your reserved book %q is now available for pickup.", title))
	return full, nil
}

// Fulfill closes a READY reservation once the user actually borrows the
// held copy.
func (s *ReservationService) Fulfill(ctx context.Context, id uint) (models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		reservation, err = s.reservations.GetForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("reservation %d: %w", id, err)
		}
		if reservation.Status != models.ReservationReady {
			return fmt.Errorf("reservation %d is %s: %w", id, reservation.Status, domain.ErrInvalidState)
		}
		reservation.Status = models.ReservationFulfilled
		return s.reservations.Save(tx, &reservation)
	})
	if err != nil {
		return models.Reservation{}, err
	}
	return s.reservations.GetByID(ctx, id)
}

// SweepExpired expires READY reservations whose pickup window passed and
// compacts the affected queues. Row-per-transaction, idempotent.
func (s *ReservationService) SweepExpired(ctx context.Context) (int, error) {
	logger := log.GetLogger(ctx)
	now := time.Now()
	rows, err := s.reservations.ListExpiredReady(ctx, now)
	if err != nil {
		return 0, err
	}

	var (
		swept int
		errs  *multierror.Error
	)
	for _, row := range rows {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			reservation, err := s.reservations.GetForUpdate(tx, row.ID)
			if err != nil {
				return err
			}
			if reservation.Status != models.ReservationReady || !now.After(reservation.ExpiryDate) {
				return nil
			}
			reservation.Status = models.ReservationExpired
			if err := s.reservations.Save(tx, &reservation); err != nil {
				return err
			}
			swept++
			return s.compactQueue(tx, reservation.BookID)
		})
		if err != nil {
			logger.WithError(err).Errorf("expiry sweep failed for reservation %d", row.ID)
			errs = multierror.Append(errs, fmt.Errorf("reservation %d: %w", row.ID, err))
			continue
		}
		title := ""
		if row.Book != nil {
			title = row.Book.Title
		}
		s.notifier.Emit(ctx, row.UserID, models.NotifyGeneral,
			"Reservation expired",
			fmt.Sprintf("Your reservation for %q expired because the book was not picked up in time.", title))
	}
	return swept, errs.ErrorOrNil()
}

func (s *ReservationService) compactQueue(tx *gorm.DB, bookID uint) error {
	return compactPendingQueue(tx, s.reservations, bookID)
}

// compactPendingQueue renumbers a book's PENDING reservations back to a
// contiguous 1..N sequence in original reservation order. Shared with the
// borrowing ledger, which promotes the queue head on return.
func compactPendingQueue(tx *gorm.DB, reservations repository.ReservationRepository, bookID uint) error {
	pending, err := reservations.ListPendingOrdered(tx, bookID)
	if err != nil {
		return err
	}
	for i := range pending {
		if pending[i].QueuePosition == i+1 {
			continue
		}
		pending[i].QueuePosition = i + 1
		if err := reservations.Save(tx, &pending[i]); err != nil {
			return err
		}
	}
	return nil
}

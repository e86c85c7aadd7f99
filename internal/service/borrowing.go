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

// BorrowingService is the ledger for the borrow/approve/return/renew
// lifecycle. Every status transition and its paired availability-counter
// mutation run inside one database transaction; notifications and activity
// log entries are written after commit and never roll anything back.
type BorrowingService struct {
	db           *gorm.DB
	borrowings   repository.BorrowingRepository
	books        repository.BookRepository
	users        repository.UserRepository
	fines        repository.FineRepository
	reservations repository.ReservationRepository
	configs      repository.SystemConfigRepository
	activity     repository.ActivityLogRepository
	notifier     *NotificationService
}

func NewBorrowingService(
	db *gorm.DB,
	borrowings repository.BorrowingRepository,
	books repository.BookRepository,
	users repository.UserRepository,
	fines repository.FineRepository,
	reservations repository.ReservationRepository,
	configs repository.SystemConfigRepository,
	activity repository.ActivityLogRepository,
	notifier *NotificationService,
) *BorrowingService {
	return &BorrowingService{
		db:           db,
		borrowings:   borrowings,
		books:        books,
		users:        users,
		fines:        fines,
		reservations: reservations,
		configs:      configs,
		activity:     activity,
		notifier:     notifier,
	}
}

func (s *BorrowingService) Get(ctx context.Context, id uint) (models.Borrowing, error) {
	return s.borrowings.GetByID(ctx, id)
}

func (s *BorrowingService) List(ctx context.Context, f repository.BorrowingFilter) ([]models.Borrowing, int64, error) {
	return s.borrowings.List(ctx, f)
}

// RequestBorrow creates a PENDING borrowing. All preconditions are checked
// before anything is written.
func (s *BorrowingService) RequestBorrow(ctx context.Context, userID, bookID uint, notes *string) (models.Borrowing, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Borrowing{}, fmt.Errorf("user %d: %w", userID, err)
	}
	if user.Status != models.UserActive {
		return models.Borrowing{}, fmt.Errorf("user %d: %w", userID, domain.ErrUserSuspended)
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return models.Borrowing{}, fmt.Errorf("book %d: %w", bookID, err)
	}
	if book.AvailableCopies <= 0 {
		return models.Borrowing{}, fmt.Errorf("book %d: %w", bookID, domain.ErrBookUnavailable)
	}

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return models.Borrowing{}, err
	}
	limit := cfg.MaxBooksPerUser
	if user.BorrowLimit > 0 {
		limit = user.BorrowLimit
	}
	active, err := s.borrowings.CountActive(ctx, userID)
	if err != nil {
		return models.Borrowing{}, err
	}
	if active >= int64(limit) {
		return models.Borrowing{}, fmt.Errorf("user %d already holds %d borrowings: %w", userID, active, domain.ErrLimitExceeded)
	}

	existing, err := s.borrowings.FindActiveByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return models.Borrowing{}, err
	}
	if existing != nil {
		return models.Borrowing{}, fmt.Errorf("borrowing %d: %w", existing.ID, domain.ErrDuplicateRequest)
	}

	borrowing := models.Borrowing{
		UserID: userID,
		BookID: bookID,
		Status: models.BorrowingPending,
		Notes:  notes,
	}
	if err := s.borrowings.Create(ctx, &borrowing); err != nil {
		return models.Borrowing{}, err
	}

	s.notifier.Emit(ctx, userID, models.NotifyPending,
		"Borrow request submitted",
		fmt.Sprintf("Your request to borrow %q has been submitted and is awaiting librarian approval.", book.Title))
	s.logActivity(ctx, "CREATE", borrowing.ID, userID,
		fmt.Sprintf("%s requested to borrow %q", user.FullName, book.Title))

	return s.borrowings.GetByID(ctx, borrowing.ID)
}

// Approve moves PENDING to BORROWED, stamps the borrow period and claims one
// copy. Counter decrement and status change commit or roll back together.
func (s *BorrowingService) Approve(ctx context.Context, id, approverID uint) (models.Borrowing, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return models.Borrowing{}, err
	}

	var borrowing models.Borrowing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		borrowing, err = s.borrowings.GetForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("borrowing %d: %w", id, err)
		}
		if borrowing.Status != models.BorrowingPending {
			return fmt.Errorf("borrowing %d is %s: %w", id, borrowing.Status, domain.ErrInvalidState)
		}
		now := time.Now()
		due := now.AddDate(0, 0, cfg.DefaultBorrowDays)
		borrowing.Status = models.BorrowingBorrowed
		borrowing.BorrowDate = &now
		borrowing.DueDate = &due
		if err := s.borrowings.Save(tx, &borrowing); err != nil {
			return err
		}
		if err := s.books.AdjustAvailableCopies(tx, borrowing.BookID, -1); err != nil {
			return err
		}
		return s.books.IncrementBorrowCount(tx, borrowing.BookID)
	})
	if err != nil {
		return models.Borrowing{}, err
	}

	full, err := s.borrowings.GetByID(ctx, id)
	if err != nil {
		return models.Borrowing{}, err
	}
	title := bookTitle(full)
	s.notifier.Emit(ctx, full.UserID, models.NotifyApproved,
		"Borrow request approved",
		fmt.Sprintf("Your request to borrow %q was approved. Please pick the book up at the library. Due date: %s.",
			title, full.DueDate.Format("2006-01-02")))
	s.logActivity(ctx, "APPROVE", id, approverID,
		fmt.Sprintf("Approved borrowing of %q", title))
	return full, nil
}

// Reject moves PENDING to REJECTED without touching inventory.
func (s *BorrowingService) Reject(ctx context.Context, id, rejecterID uint, reason *string) (models.Borrowing, error) {
	var borrowing models.Borrowing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		borrowing, err = s.borrowings.GetForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("borrowing %d: %w", id, err)
		}
		if borrowing.Status != models.BorrowingPending {
			return fmt.Errorf("borrowing %d is %s: %w", id, borrowing.Status, domain.ErrInvalidState)
		}
		borrowing.Status = models.BorrowingRejected
		if reason != nil {
			borrowing.Notes = reason
		}
		return s.borrowings.Save(tx, &borrowing)
	})
	if err != nil {
		return models.Borrowing{}, err
	}

	full, err := s.borrowings.GetByID(ctx, id)
	if err != nil {
		return models.Borrowing{}, err
	}
	message := fmt.Sprintf("Your request to borrow %q was rejected.", bookTitle(full))
	if reason != nil && *reason != "" {
		message += " Reason: " + *reason
	}
	s.notifier.Emit(ctx, full.UserID, models.NotifyRejected, "Borrow request rejected", message)
	s.logActivity(ctx, "REJECT", id, rejecterID,
		fmt.Sprintf("Rejected borrowing of %q", bookTitle(full)))
	return full, nil
}

// Return closes a BORROWED or OVERDUE borrowing, releases the copy, creates
// a fine when late and wakes the head of the reservation queue. The whole
// mutation is one transaction.
func (s *BorrowingService) Return(ctx context.Context, id, returnerID uint) (models.Borrowing, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return models.Borrowing{}, err
	}

	var (
		borrowing models.Borrowing
		fine      *models.Fine
		readyRes  *models.Reservation
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		borrowing, err = s.borrowings.GetForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("borrowing %d: %w", id, err)
		}
		if borrowing.Status != models.BorrowingBorrowed && borrowing.Status != models.BorrowingOverdue {
			return fmt.Errorf("borrowing %d is %s: %w", id, borrowing.Status, domain.ErrInvalidState)
		}
		now := time.Now()
		borrowing.Status = models.BorrowingReturned
		borrowing.ReturnDate = &now
		if err := s.borrowings.Save(tx, &borrowing); err != nil {
			return err
		}
		if err := s.books.AdjustAvailableCopies(tx, borrowing.BookID, 1); err != nil {
			return err
		}

		if borrowing.DueDate != nil && now.After(*borrowing.DueDate) {
			exists, err := s.fines.HasActiveForBorrowing(tx, borrowing.ID)
			if err != nil {
				return err
			}
			if !exists {
				amount, days := FineAmount(*borrowing.DueDate, now, cfg.LateFeePerDay)
				fine = &models.Fine{
					BorrowingID: borrowing.ID,
					UserID:      borrowing.UserID,
					Amount:      amount,
					DaysOverdue: days,
					DailyRate:   cfg.LateFeePerDay,
					Status:      models.FinePending,
				}
				if err := s.fines.Create(tx, fine); err != nil {
					return err
				}
			}
		}

		// The freed copy goes to the head of the reservation queue, if any.
		pending, err := s.reservations.ListPendingOrdered(tx, borrowing.BookID)
		if err != nil {
			return err
		}
		if len(pending) > 0 {
			head := pending[0]
			head.Status = models.ReservationReady
			head.NotifiedDate = &now
			if err := s.reservations.Save(tx, &head); err != nil {
				return err
			}
			readyRes = &head
			if err := compactPendingQueue(tx, s.reservations, borrowing.BookID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Borrowing{}, err
	}

	full, err := s.borrowings.GetByID(ctx, id)
	if err != nil {
		return models.Borrowing{}, err
	}
	title := bookTitle(full)
	if fine != nil {
		s.notifier.Emit(ctx, full.UserID, models.NotifyOverdue,
			"Book returned late",
			fmt.Sprintf("You returned %q %d days late. Fine: %d VND.", title, fine.DaysOverdue, fine.Amount))
		s.notifier.Emit(ctx, full.UserID, models.NotifyFineAdded,
			"Fine added",
			fmt.Sprintf("A fine of %d VND has been added to your account.", fine.Amount))
	} else {
		s.notifier.Emit(ctx, full.UserID, models.NotifyGeneral,
			"Book returned",
			fmt.Sprintf("You returned %q on time. Thank you!", title))
	}
	if readyRes != nil {
		s.notifier.Emit(ctx, readyRes.UserID, models.NotifyReservationReady,
			"Reserved book available",
			fmt.Sprintf("Your reserved book %q is now available for pickup.", title))
	}
	s.logActivity(ctx, "RETURN", id, returnerID,
		fmt.Sprintf("Returned %q", title))
	return full, nil
}

// Renew extends the due date by one borrow period. Only the owner may renew,
// only while BORROWED, never once past due, and at most maxRenewalCount
// times.
func (s *BorrowingService) Renew(ctx context.Context, id, requestingUserID uint) (models.Borrowing, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return models.Borrowing{}, err
	}

	var borrowing models.Borrowing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		borrowing, err = s.borrowings.GetForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("borrowing %d: %w", id, err)
		}
		if borrowing.UserID != requestingUserID {
			return fmt.Errorf("borrowing %d: %w", id, domain.ErrNotOwner)
		}
		if borrowing.Status != models.BorrowingBorrowed {
			return fmt.Errorf("borrowing %d is %s: %w", id, borrowing.Status, domain.ErrInvalidState)
		}
		if borrowing.DueDate == nil || time.Now().After(*borrowing.DueDate) {
			return fmt.Errorf("borrowing %d: %w", id, domain.ErrAlreadyOverdue)
		}
		if borrowing.RenewalCount >= cfg.MaxRenewalCount {
			return fmt.Errorf("borrowing %d renewed %d times: %w", id, borrowing.RenewalCount, domain.ErrRenewalLimitExceeded)
		}
		due := borrowing.DueDate.AddDate(0, 0, cfg.DefaultBorrowDays)
		borrowing.DueDate = &due
		borrowing.RenewalCount++
		return s.borrowings.Save(tx, &borrowing)
	})
	if err != nil {
		return models.Borrowing{}, err
	}

	full, err := s.borrowings.GetByID(ctx, id)
	if err != nil {
		return models.Borrowing{}, err
	}
	s.notifier.Emit(ctx, full.UserID, models.NotifyGeneral,
		"Borrowing renewed",
		fmt.Sprintf("You renewed %q. New due date: %s.", bookTitle(full), full.DueDate.Format("2006-01-02")))
	s.logActivity(ctx, "RENEW", id, requestingUserID,
		fmt.Sprintf("Renewed %q", bookTitle(full)))
	return full, nil
}

// SweepOverdue transitions every BORROWED row past its due date to OVERDUE
// and attaches a fine when none exists yet. Each row commits independently,
// so the sweep is idempotent and safe next to live traffic; a second run
// finds nothing left to transition.
func (s *BorrowingService) SweepOverdue(ctx context.Context) (int, error) {
	logger := log.GetLogger(ctx)
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	rows, err := s.borrowings.ListDueBefore(ctx, now)
	if err != nil {
		return 0, err
	}

	var (
		swept int
		errs  *multierror.Error
	)
	for _, row := range rows {
		var fine *models.Fine
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			borrowing, err := s.borrowings.GetForUpdate(tx, row.ID)
			if err != nil {
				return err
			}
			// Re-check under lock: a concurrent return may have closed it.
			if borrowing.Status != models.BorrowingBorrowed || borrowing.DueDate == nil || !now.After(*borrowing.DueDate) {
				return nil
			}
			borrowing.Status = models.BorrowingOverdue
			if err := s.borrowings.Save(tx, &borrowing); err != nil {
				return err
			}
			exists, err := s.fines.HasActiveForBorrowing(tx, borrowing.ID)
			if err != nil {
				return err
			}
			if !exists {
				amount, days := FineAmount(*borrowing.DueDate, now, cfg.LateFeePerDay)
				fine = &models.Fine{
					BorrowingID: borrowing.ID,
					UserID:      borrowing.UserID,
					Amount:      amount,
					DaysOverdue: days,
					DailyRate:   cfg.LateFeePerDay,
					Status:      models.FinePending,
				}
				if err := s.fines.Create(tx, fine); err != nil {
					return err
				}
			}
			swept++
			return nil
		})
		if err != nil {
			logger.WithError(err).Errorf("overdue sweep failed for borrowing %d", row.ID)
			errs = multierror.Append(errs, fmt.Errorf("borrowing %d: %w", row.ID, err))
			continue
		}
		title := ""
		if row.Book != nil {
			title = row.Book.Title
		}
		days := LateDays(*row.DueDate, now)
		s.notifier.Emit(ctx, row.UserID, models.NotifyOverdue,
			"Book overdue",
			fmt.Sprintf("Your borrowed book %q is %d days overdue. Please return it as soon as possible.", title, days))
		if fine != nil {
			s.notifier.Emit(ctx, row.UserID, models.NotifyFineAdded,
				"Fine added",
				fmt.Sprintf("A fine of %d VND has been added to your account.", fine.Amount))
		}
	}
	return swept, errs.ErrorOrNil()
}

func (s *BorrowingService) logActivity(ctx context.Context, action string, borrowingID, actorID uint, description string) {
	entry := &models.ActivityLog{
		Action:      action,
		Entity:      "BORROWING",
		EntityID:    borrowingID,
		Description: description,
		UserID:      actorID,
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		log.GetLogger(ctx).WithError(err).Errorf("failed to log %s for borrowing %d", action, borrowingID)
	}
}

func bookTitle(b models.Borrowing) string {
	if b.Book != nil {
		return b.Book.Title
	}
	return ""
}

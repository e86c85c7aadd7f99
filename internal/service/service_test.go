package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/config"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

type testEnv struct {
	db           *gorm.DB
	books        repository.BookRepository
	users        repository.UserRepository
	borrowings   repository.BorrowingRepository
	fines        repository.FineRepository
	reservations repository.ReservationRepository
	configs      repository.SystemConfigRepository
	notifier     *NotificationService
	ledger       *BorrowingService
	reservation  *ReservationService
	fineSvc      *FineService
}

// newTestEnv wires the full service stack against a per-test in-memory
// database so tests cannot interfere with each other.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := repository.Open(config.DatabaseConfig{Driver: "sqlite", Path: dsn})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	env := &testEnv{
		db:           db,
		books:        repository.NewBookRepo(db),
		users:        repository.NewUserRepo(db),
		borrowings:   repository.NewBorrowingRepo(db),
		fines:        repository.NewFineRepo(db),
		reservations: repository.NewReservationRepo(db),
		configs:      repository.NewSystemConfigRepo(db),
	}
	env.notifier = NewNotificationService(repository.NewNotificationRepo(db), nil)
	env.ledger = NewBorrowingService(
		db, env.borrowings, env.books, env.users, env.fines, env.reservations,
		env.configs, repository.NewActivityLogRepo(db), env.notifier)
	env.reservation = NewReservationService(
		db, env.reservations, env.books, env.users, env.configs, env.notifier)
	env.fineSvc = NewFineService(env.fines, env.notifier)
	return env
}

func (e *testEnv) createUser(t *testing.T, name string) models.User {
	t.Helper()
	user := models.User{
		UserCode: name,
		FullName: name,
		Email:    name + "@example.com",
		Role:     models.RoleReader,
		Status:   models.UserActive,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func (e *testEnv) createBook(t *testing.T, title string, copies int) models.Book {
	t.Helper()
	book := models.Book{
		Title:           title,
		ISBN:            "isbn-" + title,
		TotalCopies:     copies,
		AvailableCopies: copies,
		Status:          models.BookAvailable,
	}
	require.NoError(t, e.db.Create(&book).Error)
	return book
}

func (e *testEnv) reloadBook(t *testing.T, id uint) models.Book {
	t.Helper()
	var book models.Book
	require.NoError(t, e.db.First(&book, id).Error)
	return book
}

func (e *testEnv) reloadBorrowing(t *testing.T, id uint) models.Borrowing {
	t.Helper()
	var borrowing models.Borrowing
	require.NoError(t, e.db.First(&borrowing, id).Error)
	return borrowing
}

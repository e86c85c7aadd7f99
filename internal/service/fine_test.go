package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kanenguyen264-cyber/do-an/internal/domain"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

func TestLateDays(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		ret    time.Time
		expect int
	}{
		{"on time", due, 0},
		{"early", due.Add(-time.Hour), 0},
		{"partial day rounds up", due.Add(time.Hour), 1},
		{"exactly one day", due.Add(24 * time.Hour), 1},
		{"one day and a bit", due.Add(25 * time.Hour), 2},
		{"six days", due.Add(6 * 24 * time.Hour), 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, LateDays(due, tc.ret))
		})
	}
}

func TestFineAmount(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ret := due.AddDate(0, 0, 6)

	amount, days := FineAmount(due, ret, 5000)
	require.Equal(t, int64(30000), amount)
	require.Equal(t, 6, days)

	amount, days = FineAmount(due, due, 5000)
	require.Zero(t, amount)
	require.Zero(t, days)
}

func (e *testEnv) createFine(t *testing.T, userID uint) models.Fine {
	t.Helper()
	book := e.createBook(t, "fined book "+uuid.NewString(), 1)
	borrowing := models.Borrowing{
		UserID: userID,
		BookID: book.ID,
		Status: models.BorrowingReturned,
	}
	require.NoError(t, e.db.Create(&borrowing).Error)
	fine := models.Fine{
		BorrowingID: borrowing.ID,
		UserID:      userID,
		Amount:      15000,
		DaysOverdue: 3,
		DailyRate:   5000,
		Status:      models.FinePending,
	}
	require.NoError(t, e.db.Create(&fine).Error)
	return fine
}

func TestPayFine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "payer")
	fine := env.createFine(t, user.ID)

	paid, err := env.fineSvc.Pay(ctx, fine.ID)
	require.NoError(t, err)
	require.Equal(t, models.FinePaid, paid.Status)
	require.NotNil(t, paid.PaidDate)

	// Paying twice is rejected.
	_, err = env.fineSvc.Pay(ctx, fine.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestWaiveFine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "waived")
	fine := env.createFine(t, user.ID)

	notes := "first offence"
	waived, err := env.fineSvc.Waive(ctx, fine.ID, &notes)
	require.NoError(t, err)
	require.Equal(t, models.FineWaived, waived.Status)
	require.Nil(t, waived.PaidDate)
	require.NotNil(t, waived.Notes)
	require.Equal(t, notes, *waived.Notes)

	_, err = env.fineSvc.Pay(ctx, fine.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = env.fineSvc.Waive(ctx, fine.ID, nil)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUnpaidTotalCountsOnlyPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "debtor")

	env.createFine(t, user.ID)
	second := env.createFine(t, user.ID)
	third := env.createFine(t, user.ID)

	_, err := env.fineSvc.Pay(ctx, second.ID)
	require.NoError(t, err)
	_, err = env.fineSvc.Waive(ctx, third.ID, nil)
	require.NoError(t, err)

	total, err := env.fineSvc.UnpaidTotal(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(15000), total)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kanenguyen264-cyber/do-an/internal/domain"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

func TestReserveAssignsQueuePositions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	book := env.createBook(t, "Popular", 1)

	for i, name := range []string{"ana", "ben", "cid"} {
		user := env.createUser(t, name)
		reservation, err := env.reservation.Reserve(ctx, user.ID, book.ID)
		require.NoError(t, err)
		require.Equal(t, i+1, reservation.QueuePosition)
		require.Equal(t, models.ReservationPending, reservation.Status)
		require.WithinDuration(t, time.Now().AddDate(0, 0, 7), reservation.ExpiryDate, time.Minute)
	}
}

func TestReserveDuplicatePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "dora")
	book := env.createBook(t, "Once only", 1)

	_, err := env.reservation.Reserve(ctx, user.ID, book.ID)
	require.NoError(t, err)
	_, err = env.reservation.Reserve(ctx, user.ID, book.ID)
	require.ErrorIs(t, err, domain.ErrDuplicatePending)
}

func TestReserveSuspendedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "edgar")
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", models.UserSuspended).Error)
	book := env.createBook(t, "Not for you", 1)

	_, err := env.reservation.Reserve(ctx, user.ID, book.ID)
	require.ErrorIs(t, err, domain.ErrUserSuspended)
}

func TestCancelCompactsQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	book := env.createBook(t, "Queued", 1)

	users := make([]models.User, 3)
	ids := make([]uint, 3)
	for i, name := range []string{"fay", "gus", "hal"} {
		users[i] = env.createUser(t, name)
		reservation, err := env.reservation.Reserve(ctx, users[i].ID, book.ID)
		require.NoError(t, err)
		ids[i] = reservation.ID
	}

	// Cancel the middle of the queue; the two survivors close ranks in
	// temporal order.
	cancelled, err := env.reservation.Cancel(ctx, ids[1], users[1].ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationCancelled, cancelled.Status)

	first, err := env.reservation.Get(ctx, ids[0])
	require.NoError(t, err)
	require.Equal(t, 1, first.QueuePosition)
	third, err := env.reservation.Get(ctx, ids[2])
	require.NoError(t, err)
	require.Equal(t, 2, third.QueuePosition)
}

func TestCancelRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "iris")
	stranger := env.createUser(t, "jack")
	book := env.createBook(t, "Hands off", 1)

	reservation, err := env.reservation.Reserve(ctx, owner.ID, book.ID)
	require.NoError(t, err)

	_, err = env.reservation.Cancel(ctx, reservation.ID, stranger.ID)
	require.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = env.reservation.Cancel(ctx, reservation.ID, owner.ID)
	require.NoError(t, err)
	// Cancelling a CANCELLED reservation fails.
	_, err = env.reservation.Cancel(ctx, reservation.ID, owner.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestMarkReadyAndFulfill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "kim")
	book := env.createBook(t, "Pickup", 1)

	reservation, err := env.reservation.Reserve(ctx, user.ID, book.ID)
	require.NoError(t, err)

	// Fulfilling before the copy is held fails.
	_, err = env.reservation.Fulfill(ctx, reservation.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	ready, err := env.reservation.MarkReady(ctx, reservation.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationReady, ready.Status)
	require.NotNil(t, ready.NotifiedDate)

	fulfilled, err := env.reservation.Fulfill(ctx, reservation.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationFulfilled, fulfilled.Status)

	notifications, err := env.notifier.List(ctx, user.ID, false)
	require.NoError(t, err)
	var found bool
	for _, n := range notifications {
		if n.Type == models.NotifyReservationReady {
			found = true
		}
	}
	require.True(t, found)
}

func TestSweepExpiredReservations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	expiredUser := env.createUser(t, "lena")
	freshUser := env.createUser(t, "milo")
	book := env.createBook(t, "Forgotten", 1)

	expired, err := env.reservation.Reserve(ctx, expiredUser.ID, book.ID)
	require.NoError(t, err)
	fresh, err := env.reservation.Reserve(ctx, freshUser.ID, book.ID)
	require.NoError(t, err)

	_, err = env.reservation.MarkReady(ctx, expired.ID)
	require.NoError(t, err)
	_, err = env.reservation.MarkReady(ctx, fresh.ID)
	require.NoError(t, err)

	// Only the first reservation's pickup window has passed.
	require.NoError(t, env.db.Model(&models.Reservation{}).Where("id = ?", expired.ID).
		Update("expiry_date", time.Now().Add(-time.Hour)).Error)

	count, err := env.reservation.SweepExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	got, err := env.reservation.Get(ctx, expired.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationExpired, got.Status)
	got, err = env.reservation.Get(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationReady, got.Status)

	// The sweep is idempotent.
	count, err = env.reservation.SweepExpired(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kanenguyen264-cyber/do-an/internal/domain"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

// LateDays returns the number of chargeable overdue days, rounding any
// partial day up. Zero when the return is on time.
func LateDays(dueDate, returnDate time.Time) int {
	if !returnDate.After(dueDate) {
		return 0
	}
	days := int(math.Ceil(returnDate.Sub(dueDate).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// FineAmount derives the penalty from the overdue span and the daily rate in
// force at computation time. Past fines keep the rate they were created with.
func FineAmount(dueDate, returnDate time.Time, dailyRate int64) (int64, int) {
	days := LateDays(dueDate, returnDate)
	return int64(days) * dailyRate, days
}

type FineService struct {
	fines    repository.FineRepository
	notifier *NotificationService
}

func NewFineService(fines repository.FineRepository, notifier *NotificationService) *FineService {
	return &FineService{fines: fines, notifier: notifier}
}

func (f *FineService) Get(ctx context.Context, id uint) (models.Fine, error) {
	return f.fines.GetByID(ctx, id)
}

func (f *FineService) List(ctx context.Context, filter repository.FineFilter) ([]models.Fine, int64, error) {
	return f.fines.List(ctx, filter)
}

func (f *FineService) UnpaidTotal(ctx context.Context, userID uint) (int64, error) {
	return f.fines.UnpaidTotal(ctx, userID)
}

func (f *FineService) Pay(ctx context.Context, id uint) (models.Fine, error) {
	fine, err := f.fines.GetByID(ctx, id)
	if err != nil {
		return models.Fine{}, err
	}
	if fine.Status != models.FinePending {
		return models.Fine{}, fmt.Errorf("fine %d is %s: %w", id, fine.Status, domain.ErrInvalidState)
	}
	now := time.Now()
	fine.Status = models.FinePaid
	fine.PaidDate = &now
	if err := f.fines.Save(ctx, &fine); err != nil {
		return models.Fine{}, err
	}
	f.notifier.Emit(ctx, fine.UserID, models.NotifyGeneral,
		"Fine paid",
		fmt.Sprintf("Your fine of %d VND has been marked as paid.", fine.Amount))
	return fine, nil
}

func (f *FineService) Waive(ctx context.Context, id uint, notes *string) (models.Fine, error) {
	fine, err := f.fines.GetByID(ctx, id)
	if err != nil {
		return models.Fine{}, err
	}
	if fine.Status != models.FinePending {
		return models.Fine{}, fmt.Errorf("fine %d is %s: %w", id, fine.Status, domain.ErrInvalidState)
	}
	fine.Status = models.FineWaived
	if notes != nil {
		fine.Notes = notes
	}
	if err := f.fines.Save(ctx, &fine); err != nil {
		return models.Fine{}, err
	}
	f.notifier.Emit(ctx, fine.UserID, models.NotifyGeneral,
		"Fine waived",
		fmt.Sprintf("Your fine of %d VND has been waived.", fine.Amount))
	return fine, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

type MembershipService struct {
	users      repository.UserRepository
	borrowings repository.BorrowingRepository
}

func NewMembershipService(users repository.UserRepository, borrowings repository.BorrowingRepository) *MembershipService {
	return &MembershipService{users: users, borrowings: borrowings}
}

type CreateUserInput struct {
	FullName string
	Email    string
	Phone    string
	Role     models.UserRole
}

func (m *MembershipService) Create(ctx context.Context, in CreateUserInput) (models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleReader
	}
	user := models.User{
		UserCode: uuid.New().String(),
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Role:     role,
		Status:   models.UserActive,
	}
	if err := m.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (m *MembershipService) Get(ctx context.Context, id uint) (models.User, error) {
	return m.users.GetByID(ctx, id)
}

func (m *MembershipService) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	return m.users.List(ctx, page, limit)
}

type UpdateUserInput struct {
	FullName    *string
	Phone       *string
	Role        *models.UserRole
	Status      *models.UserStatus
	BorrowLimit *int
}

func (m *MembershipService) Update(ctx context.Context, id uint, in UpdateUserInput) (models.User, error) {
	user, err := m.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("user %d: %w", id, err)
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	if in.BorrowLimit != nil {
		user.BorrowLimit = *in.BorrowLimit
	}
	if err := m.users.Update(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CountActiveBorrowings reports how many borrowings currently count against
// the user's limit.
func (m *MembershipService) CountActiveBorrowings(ctx context.Context, userID uint) (int64, error) {
	return m.borrowings.CountActive(ctx, userID)
}

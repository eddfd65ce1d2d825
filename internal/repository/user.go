package repository

import (
	"context"
	"fmt"
	"time"

	"harvest/internal/domain"
	"harvest/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindByResetToken(ctx context.Context, token string) (dao.User, error)
	FindAll(ctx context.Context) ([]dao.User, error)
	FindByCountry(ctx context.Context, country string) ([]dao.User, error)
	CountLeadersByCountry(ctx context.Context, country string, excludeUserID uint) (int64, error)
	Update(ctx context.Context, user dao.User) (dao.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (domain.User, error) {
	found, err := r.dao.FindByResetToken(ctx, token)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByResetToken -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *UserRepository) FindByCountry(ctx context.Context, country string) ([]domain.User, error) {
	found, err := r.dao.FindByCountry(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCountry -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *UserRepository) CountLeadersByCountry(ctx context.Context, country string, excludeUserID uint) (int64, error) {
	count, err := r.dao.CountLeadersByCountry(ctx, country, excludeUserID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountLeadersByCountry -> %w", err)
	}

	return count, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	var resetExpiry time.Time
	if u.ResetTokenExpiry != nil {
		resetExpiry = *u.ResetTokenExpiry
	}

	return domain.User{
		ID:               u.ID,
		Fullname:         u.Fullname,
		Email:            u.Email,
		Password:         u.Password,
		Role:             domain.Role(u.Role),
		Country:          u.Country,
		Contact:          u.Contact,
		Address:          u.Address,
		Church:           u.Church,
		ProfileImage:     u.ProfileImage,
		ResetToken:       u.ResetToken,
		ResetTokenExpiry: resetExpiry,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (r *UserRepository) domainToDAO(u domain.User) dao.User {
	var resetExpiry *time.Time
	if !u.ResetTokenExpiry.IsZero() {
		expiry := u.ResetTokenExpiry
		resetExpiry = &expiry
	}

	return dao.User{
		ID:               u.ID,
		Fullname:         u.Fullname,
		Email:            u.Email,
		Password:         u.Password,
		Role:             u.Role.String(),
		Country:          u.Country,
		Contact:          u.Contact,
		Address:          u.Address,
		Church:           u.Church,
		ProfileImage:     u.ProfileImage,
		ResetToken:       u.ResetToken,
		ResetTokenExpiry: resetExpiry,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (r *UserRepository) daoToDomainSlice(users []dao.User) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, r.daoToDomain(u))
	}

	return out
}

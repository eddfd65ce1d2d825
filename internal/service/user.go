package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"harvest/internal/domain"
)

var (
	ErrPermissionDenied = errors.New("operation not permitted for this role")
	ErrLeaderLimit      = errors.New("a country may have at most 2 leaders")
	ErrSelfDelete       = errors.New("cannot delete your own account")
)

const maxLeadersPerCountry = 2

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByCountry(ctx context.Context, country string) ([]domain.User, error)
	CountLeadersByCountry(ctx context.Context, country string, excludeUserID uint) (int64, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// ListUsers is role-scoped: admin sees everyone, a leader their own
// country, a member nobody.
func (s *UserService) ListUsers(ctx context.Context, viewer domain.User) ([]domain.User, error) {
	switch viewer.Role {
	case domain.RoleAdmin:
		users, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
		}
		return users, nil

	case domain.RoleLeader:
		users, err := s.repo.FindByCountry(ctx, viewer.Country)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindByCountry -> %w", err)
		}
		return users, nil

	default:
		return nil, ErrPermissionDenied
	}
}

// CreateUser is the admin-driven account creation with an explicit
// role.
func (s *UserService) CreateUser(ctx context.Context, viewer domain.User, user domain.User) (domain.User, error) {
	if viewer.Role != domain.RoleAdmin {
		return domain.User{}, ErrPermissionDenied
	}

	if user.Role != domain.RoleAdmin && user.Country == "" {
		return domain.User{}, ErrCountryRequired
	}

	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return domain.User{}, ErrUserEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = string(hash)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// UserUpdate carries the mutable profile fields; nil means unchanged.
type UserUpdate struct {
	Fullname *string
	Contact  *string
	Address  *string
	Church   *string
	Country  *string
	Role     *domain.Role
}

// UpdateUser lets a user edit their own profile and an admin edit
// anyone, including role changes. Promoting to leader enforces the
// per-country leader cap; the cap is deliberately not checked at
// creation time.
func (s *UserService) UpdateUser(ctx context.Context, viewer domain.User, id uint, update UserUpdate) (domain.User, error) {
	isSelf := viewer.ID == id
	if !isSelf && viewer.Role != domain.RoleAdmin {
		return domain.User{}, ErrPermissionDenied
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if update.Fullname != nil {
		user.Fullname = *update.Fullname
	}
	if update.Contact != nil {
		user.Contact = *update.Contact
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.Church != nil {
		user.Church = *update.Church
	}

	if update.Country != nil || update.Role != nil {
		if viewer.Role != domain.RoleAdmin {
			return domain.User{}, ErrPermissionDenied
		}
		if update.Country != nil {
			user.Country = *update.Country
		}
		if update.Role != nil {
			user.Role = *update.Role
		}
		if user.Role != domain.RoleAdmin && user.Country == "" {
			return domain.User{}, ErrCountryRequired
		}
		if user.Role == domain.RoleLeader {
			count, err := s.repo.CountLeadersByCountry(ctx, user.Country, user.ID)
			if err != nil {
				return domain.User{}, fmt.Errorf("s.repo.CountLeadersByCountry -> %w", err)
			}
			if count >= maxLeadersPerCountry {
				return domain.User{}, ErrLeaderLimit
			}
		}
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteUser removes an account and, through the store, all reports it
// owns. Admin may delete anyone but themselves; a leader only members
// of their own country.
func (s *UserService) DeleteUser(ctx context.Context, viewer domain.User, id uint) error {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	switch viewer.Role {
	case domain.RoleAdmin:
		if viewer.ID == id {
			return ErrSelfDelete
		}
	case domain.RoleLeader:
		if target.Role != domain.RoleMember || target.Country != viewer.Country {
			return ErrPermissionDenied
		}
	default:
		return ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *UserService) UpdateProfileImage(ctx context.Context, userID uint, fileURL string) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	user.ProfileImage = fileURL
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"harvest/internal/domain"
	"harvest/internal/pkg/security"
	"harvest/internal/repository"
)

var (
	ErrUserEmailExists   = repository.ErrUserEmailExists
	ErrUserNotFound      = repository.ErrUserNotFound
	ErrWrongPassword     = errors.New("wrong password")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrCountryRequired   = errors.New("country is required for non-admin users")
)

const resetTokenTTL = time.Hour

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByResetToken(ctx context.Context, token string) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

// Mailer delivers the password-reset token. Actual email transport is
// an external collaborator; the default implementation just logs.
type Mailer interface {
	SendPasswordReset(email, token string) error
}

type LogMailer struct{}

func (LogMailer) SendPasswordReset(email, token string) error {
	zap.L().Info("password reset token issued",
		zap.String("email", email),
		zap.String("token", token))

	return nil
}

type AuthService struct {
	repo   AuthUserRepository
	mailer Mailer
	now    func() time.Time
}

func NewAuthService(repo AuthUserRepository, mailer Mailer) *AuthService {
	return &AuthService{
		repo:   repo,
		mailer: mailer,
		now:    time.Now,
	}
}

// Register creates a self-registered member account.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	user.Role = domain.RoleMember
	if user.Country == "" {
		return domain.User{}, ErrCountryRequired
	}

	if err := s.checkEmailExists(ctx, user.Email); err != nil {
		return domain.User{}, err
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

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// ForgotPassword stores a one-hour reset token when the account
// exists. Unknown emails are not an error so the endpoint cannot be
// used to probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}

		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	token, err := security.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("security.GenerateSecureToken -> %w", err)
	}

	user.ResetToken = token
	user.ResetTokenExpiry = s.now().Add(resetTokenTTL)
	if _, err = s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return s.mailer.SendPasswordReset(user.Email, token)
}

// ResetPassword consumes a reset token; tokens are single use.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}

		return fmt.Errorf("s.repo.FindByResetToken -> %w", err)
	}

	if user.ResetTokenExpiry.Before(s.now()) {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hash)
	user.ResetToken = ""
	user.ResetTokenExpiry = time.Time{}
	if _, err = s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hash)
	if _, err = s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func (s *AuthService) checkEmailExists(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return ErrUserEmailExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	return nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"harvest/internal/domain"
	"harvest/internal/repository"
)

type stubAuthRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: map[uint]domain.User{}, nextID: 1}
}

func (s *stubAuthRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user

	return user, nil
}

func (s *stubAuthRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (s *stubAuthRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (s *stubAuthRepo) FindByResetToken(_ context.Context, token string) (domain.User, error) {
	for _, u := range s.users {
		if u.ResetToken != "" && u.ResetToken == token {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (s *stubAuthRepo) Update(_ context.Context, user domain.User) (domain.User, error) {
	s.users[user.ID] = user

	return user, nil
}

type captureMailer struct {
	email string
	token string
}

func (m *captureMailer) SendPasswordReset(email, token string) error {
	m.email = email
	m.token = token

	return nil
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newStubAuthRepo(), LogMailer{})

	user, err := svc.Register(ctx, domain.User{
		Fullname: "Alice", Email: "alice@example.com",
		Password: "Password1", Country: "Kenya",
		Role: domain.RoleAdmin, // must be ignored
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleMember, user.Role, "self-registration is always member")
	assert.NotEqual(t, "Password1", user.Password, "password is hashed")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Password1")))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.User{
			Fullname: "Alice2", Email: "alice@example.com",
			Password: "Password1", Country: "Kenya",
		})

		assert.ErrorIs(t, err, ErrUserEmailExists)
	})

	t.Run("country is mandatory", func(t *testing.T) {
		_, err := svc.Register(ctx, domain.User{
			Fullname: "Bob", Email: "bob@example.com", Password: "Password1",
		})

		assert.ErrorIs(t, err, ErrCountryRequired)
	})
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	repo := newStubAuthRepo()
	mailer := &captureMailer{}

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc := NewAuthService(repo, mailer)
	svc.now = func() time.Time { return now }

	user, err := svc.Register(ctx, domain.User{
		Fullname: "Alice", Email: "alice@example.com",
		Password: "Password1", Country: "Kenya",
	})
	require.NoError(t, err)

	t.Run("unknown email is silently accepted", func(t *testing.T) {
		require.NoError(t, svc.ForgotPassword(ctx, "ghost@example.com"))
		assert.Empty(t, mailer.token)
	})

	require.NoError(t, svc.ForgotPassword(ctx, "alice@example.com"))
	require.NotEmpty(t, mailer.token)
	assert.Equal(t, "alice@example.com", mailer.email)

	t.Run("bad token", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "wrong-token", "NewPassword1")

		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("expired token", func(t *testing.T) {
		svc.now = func() time.Time { return now.Add(2 * time.Hour) }
		defer func() { svc.now = func() time.Time { return now } }()

		err := svc.ResetPassword(ctx, mailer.token, "NewPassword1")

		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	require.NoError(t, svc.ResetPassword(ctx, mailer.token, "NewPassword1"))

	t.Run("token is single use", func(t *testing.T) {
		err := svc.ResetPassword(ctx, mailer.token, "AnotherPassword1")

		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("new password works, old does not", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "NewPassword1")
		assert.NoError(t, err)

		_, err = svc.Login(ctx, "alice@example.com", "Password1")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("change password checks the old one", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, "wrong", "FinalPassword1")
		assert.ErrorIs(t, err, ErrWrongPassword)

		require.NoError(t, svc.ChangePassword(ctx, user.ID, "NewPassword1", "FinalPassword1"))

		_, err = svc.Login(ctx, "alice@example.com", "FinalPassword1")
		assert.NoError(t, err)
	})
}

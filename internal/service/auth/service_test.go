package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"student-housing/internal/config"
	"student-housing/internal/domain"
	"student-housing/internal/mocks"
	"student-housing/internal/repository"
	"student-housing/internal/service/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func newService(userRepo *mocks.UserRepository, sessionRepo *mocks.SessionRepository, emailSvc *mocks.EmailService) auth.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(userRepo, sessionRepo, emailSvc, testConfig(), logger)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	input := domain.CreateUserInput{
		Email:           "Giulia@Example.com",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
		FullName:        "Giulia Rossi",
	}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		emailSvc := new(mocks.EmailService)
		svc := newService(userRepo, sessionRepo, emailSvc)

		userRepo.On("ExistsByEmail", ctx, "giulia@example.com").Return(false, nil).Once()
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "giulia@example.com" && u.PasswordHash != "supersecret"
		})).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()
		emailSvc.On("SendWelcomeEmail", mock.Anything, "giulia@example.com", "Giulia Rossi").Return(nil).Maybe()

		user, tokens, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "giulia@example.com", user.Email)
		require.NotNil(t, tokens)
		assert.NotEmpty(t, tokens.AccessToken)

		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("Password mismatch", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newService(userRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		bad := input
		bad.ConfirmPassword = "different"
		_, _, err := svc.Register(ctx, bad)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "confirm_password", verr.Field)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Short password", func(t *testing.T) {
		svc := newService(new(mocks.UserRepository), new(mocks.SessionRepository), new(mocks.EmailService))

		bad := input
		bad.Password, bad.ConfirmPassword = "short", "short"
		_, _, err := svc.Register(ctx, bad)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "password", verr.Field)
	})

	t.Run("Email taken", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newService(userRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		userRepo.On("ExistsByEmail", ctx, "giulia@example.com").Return(true, nil).Once()

		_, _, err := svc.Register(ctx, input)
		assert.ErrorIs(t, err, auth.ErrEmailExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{ID: uuid.New(), Email: "marco@example.com", PasswordHash: string(hash)}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := newService(userRepo, sessionRepo, new(mocks.EmailService))

		userRepo.On("GetByEmail", ctx, "marco@example.com").Return(user, nil).Once()
		sessionRepo.On("Create", ctx, mock.MatchedBy(func(s *repository.Session) bool {
			return s.UserID == user.ID && len(s.TokenHash) == 64
		})).Return(nil).Once()

		_, tokens, err := svc.Login(ctx, domain.LoginInput{Email: "marco@example.com", Password: "supersecret"})
		require.NoError(t, err)
		assert.Equal(t, int64(900), tokens.ExpiresIn)
	})

	t.Run("Wrong password", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newService(userRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		userRepo.On("GetByEmail", ctx, "marco@example.com").Return(user, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "marco@example.com", Password: "nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := newService(userRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "ghost@example.com", Password: "x"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	sessionRepo := new(mocks.SessionRepository)
	svc := newService(new(mocks.UserRepository), sessionRepo, new(mocks.EmailService))

	sessionID := uuid.New()
	sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(&repository.Session{ID: sessionID}, nil).Once()
	sessionRepo.On("Revoke", ctx, sessionID).Return(nil).Once()

	require.NoError(t, svc.Logout(ctx, "refresh-token"))
	sessionRepo.AssertExpectations(t)
}

func TestAuthService_ValidateAccessToken_Rejects(t *testing.T) {
	svc := newService(new(mocks.UserRepository), new(mocks.SessionRepository), new(mocks.EmailService))

	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

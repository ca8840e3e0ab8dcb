package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/mock"
	"github.com/abelyaev/accountd/internal/session"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/models"
)

// newTestAuthSvc — хелпер для создания authService с моками
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller, cfg config.Signup) (*authService, *mock.MockUserRepository, *mock.MockSessionManager) {
	t.Helper()
	mockUsers := mock.NewMockUserRepository(ctrl)
	mockSessions := mock.NewMockSessionManager(ctrl)

	svc := NewAuthService(mockUsers, mockSessions, cfg, logger.NewLogger("test")).(*authService)

	return svc, mockUsers, mockSessions
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockSessions := newTestAuthSvc(t, ctrl, config.Signup{})
	ctx := context.Background()

	now := time.Now()
	stored := models.User{
		UserID:       1,
		Email:        "john@example.com",
		PasswordHash: hashOf(t, "password123"),
		ConfirmedAt:  &now,
	}

	gomock.InOrder(
		mockUsers.EXPECT().FindUserByEmail(ctx, "john@example.com").Return(stored, nil),
		mockSessions.EXPECT().Create(ctx, stored).Return(models.Session{ID: "s-1", UserID: 1}, nil),
	)

	// адрес нормализуется перед поиском
	user, bound, err := svc.Login(ctx, models.LoginParams{Email: "  John@Example.COM ", Password: "password123"})
	require.NoError(t, err)

	assert.Equal(t, stored, user)
	assert.Equal(t, "s-1", bound.ID)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _ := newTestAuthSvc(t, ctrl, config.Signup{})
	ctx := context.Background()

	mockUsers.EXPECT().FindUserByEmail(ctx, "ghost@example.com").Return(models.User{}, store.ErrNoUserWasFound)

	_, _, err := svc.Login(ctx, models.LoginParams{Email: "ghost@example.com", Password: "whatever1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _ := newTestAuthSvc(t, ctrl, config.Signup{})
	ctx := context.Background()

	stored := models.User{UserID: 1, Email: "john@example.com", PasswordHash: hashOf(t, "password123")}
	mockUsers.EXPECT().FindUserByEmail(ctx, "john@example.com").Return(stored, nil)

	// неверный пароль неотличим от несуществующего адреса
	_, _, err := svc.Login(ctx, models.LoginParams{Email: "john@example.com", Password: "not-the-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_BlankCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestAuthSvc(t, ctrl, config.Signup{})
	ctx := context.Background()

	_, _, err := svc.Login(ctx, models.LoginParams{Email: "", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, models.LoginParams{Email: "john@example.com", Password: ""})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnconfirmedWindowClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.Signup{RequireConfirmation: true, AllowUnconfirmedAccessFor: time.Hour}
	svc, mockUsers, _ := newTestAuthSvc(t, ctrl, cfg)
	ctx := context.Background()

	stored := models.User{
		UserID:       1,
		Email:        "john@example.com",
		PasswordHash: hashOf(t, "password123"),
		CreatedAt:    time.Now().Add(-2 * time.Hour),
	}
	mockUsers.EXPECT().FindUserByEmail(ctx, "john@example.com").Return(stored, nil)

	_, _, err := svc.Login(ctx, models.LoginParams{Email: "john@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrUnconfirmedAccount)
}

func TestAuthService_Login_UnconfirmedWithinWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.Signup{RequireConfirmation: true, AllowUnconfirmedAccessFor: time.Hour}
	svc, mockUsers, mockSessions := newTestAuthSvc(t, ctrl, cfg)
	ctx := context.Background()

	stored := models.User{
		UserID:       1,
		Email:        "john@example.com",
		PasswordHash: hashOf(t, "password123"),
		CreatedAt:    time.Now().Add(-10 * time.Minute),
	}

	gomock.InOrder(
		mockUsers.EXPECT().FindUserByEmail(ctx, "john@example.com").Return(stored, nil),
		mockSessions.EXPECT().Create(ctx, stored).Return(models.Session{ID: "s-1"}, nil),
	)

	_, bound, err := svc.Login(ctx, models.LoginParams{Email: "john@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "s-1", bound.ID)
}

func TestAuthService_Login_ConfirmationDisabledIgnoresWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// подтверждение выключено — окно не проверяется даже для старых аккаунтов
	svc, mockUsers, mockSessions := newTestAuthSvc(t, ctrl, config.Signup{})
	ctx := context.Background()

	stored := models.User{
		UserID:       1,
		Email:        "john@example.com",
		PasswordHash: hashOf(t, "password123"),
		CreatedAt:    time.Now().Add(-24 * time.Hour),
	}

	gomock.InOrder(
		mockUsers.EXPECT().FindUserByEmail(ctx, "john@example.com").Return(stored, nil),
		mockSessions.EXPECT().Create(ctx, stored).Return(models.Session{ID: "s-1"}, nil),
	)

	_, _, err := svc.Login(ctx, models.LoginParams{Email: "john@example.com", Password: "password123"})
	require.NoError(t, err)
}

func TestAuthService_Login_SessionBindFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockSessions := newTestAuthSvc(t, ctrl, config.Signup{})
	ctx := context.Background()

	now := time.Now()
	stored := models.User{UserID: 1, Email: "john@example.com", PasswordHash: hashOf(t, "password123"), ConfirmedAt: &now}

	gomock.InOrder(
		mockUsers.EXPECT().FindUserByEmail(ctx, "john@example.com").Return(stored, nil),
		mockSessions.EXPECT().Create(ctx, stored).Return(models.Session{}, errors.New("redis down")),
	)

	_, _, err := svc.Login(ctx, models.LoginParams{Email: "john@example.com", Password: "password123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

// ── Logout ───────────────────────────────────────────────────────────────────

func TestAuthService_Logout_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, mockSessions := newTestAuthSvc(t, ctrl, config.Signup{})
	ctx := context.Background()

	mockSessions.EXPECT().Destroy(ctx, "s-1").Return(nil)

	require.NoError(t, svc.Logout(ctx, "s-1"))
}

func TestAuthService_Logout_DeadSessionIsFine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, mockSessions := newTestAuthSvc(t, ctrl, config.Signup{})
	ctx := context.Background()

	mockSessions.EXPECT().Destroy(ctx, "s-gone").Return(session.ErrNoSessionWasFound)

	require.NoError(t, svc.Logout(ctx, "s-gone"))
}

func TestAuthService_Logout_EmptySessionID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestAuthSvc(t, ctrl, config.Signup{})

	// без cookie выходить не из чего — Destroy не вызывается
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestAuthService_Logout_DestroyFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, mockSessions := newTestAuthSvc(t, ctrl, config.Signup{})
	ctx := context.Background()

	mockSessions.EXPECT().Destroy(ctx, "s-1").Return(errors.New("redis down"))

	require.Error(t, svc.Logout(ctx, "s-1"))
}

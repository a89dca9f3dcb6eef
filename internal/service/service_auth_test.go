package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/mock"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
	"github.com/MKhiriev/go-auth-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testIssuer  = "go-auth-keeper"
	testSignKey = "test-sign-key"
)

// fixedClock pins Now() so expiry arithmetic is deterministic.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeHasher trades bcrypt for a transparent scheme so tests can assert on
// the exact values handed to the repositories.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, string, error) {
	return "hashed:" + password, "salt", nil
}

func (fakeHasher) Verify(password, hash string) bool {
	return hash == "hashed:"+password
}

type authMocks struct {
	users       *mock.MockUserRepository
	sessions    *mock.MockSessionRepository
	resetTokens *mock.MockResetTokenRepository
	csrfTokens  *mock.MockCsrfTokenRepository
	history     *mock.MockLoginHistoryRepository
}

func newTestAuthService(t *testing.T, now time.Time) (AuthService, authMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mocks := authMocks{
		users:       mock.NewMockUserRepository(ctrl),
		sessions:    mock.NewMockSessionRepository(ctrl),
		resetTokens: mock.NewMockResetTokenRepository(ctrl),
		csrfTokens:  mock.NewMockCsrfTokenRepository(ctrl),
		history:     mock.NewMockLoginHistoryRepository(ctrl),
	}

	storages := &store.Storages{
		UserRepository:         mocks.users,
		SessionRepository:      mocks.sessions,
		ResetTokenRepository:   mocks.resetTokens,
		CsrfTokenRepository:    mocks.csrfTokens,
		LoginHistoryRepository: mocks.history,
	}

	cfg := config.Auth{
		TokenSignKey:       testSignKey,
		TokenIssuer:        testIssuer,
		BcryptCost:         4,
		LockoutThreshold:   5,
		SessionDuration:    7 * 24 * time.Hour,
		ResetTokenDuration: time.Hour,
		CsrfTokenDuration:  time.Hour,
	}

	return NewAuthService(storages, fakeHasher{}, fixedClock{now: now}, cfg, logger.Nop()), mocks
}

func testUser() models.User {
	return models.User{
		UserID:       42,
		Username:     "gopher",
		Email:        "gopher@example.com",
		PasswordHash: "hashed:correct horse",
		Salt:         "salt",
	}
}

func TestRegister_Success(t *testing.T) {
	now := time.Now()
	svc, mocks := newTestAuthService(t, now)

	mocks.users.EXPECT().
		CreateUser(gomock.Any(), models.User{
			Username:     "gopher",
			Email:        "gopher@example.com",
			PasswordHash: "hashed:correct horse",
			Salt:         "salt",
		}).
		Return(testUser(), nil)

	created, err := svc.Register(context.Background(), "gopher", "gopher@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.UserID)
	assert.Equal(t, "gopher@example.com", created.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())

	mocks.users.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(models.User{}, store.ErrEmailAlreadyExists)

	_, err := svc.Register(context.Background(), "gopher", "gopher@example.com", "correct horse")
	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
}

func TestRegister_InvalidData(t *testing.T) {
	svc, _ := newTestAuthService(t, time.Now())

	tests := []struct {
		name                      string
		username, email, password string
	}{
		{name: "empty username", email: "gopher@example.com", password: "pw"},
		{name: "empty email", username: "gopher", password: "pw"},
		{name: "empty password", username: "gopher", email: "gopher@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	svc, mocks := newTestAuthService(t, now)
	user := testUser()

	expiresAt := now.Add(7 * 24 * time.Hour)
	session := models.Session{
		SessionID: 7,
		UserID:    user.UserID,
		Token:     "opaque-session-token",
		Active:    true,
		ExpiresAt: expiresAt,
	}

	mocks.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
	mocks.users.EXPECT().UpdateLastLogin(gomock.Any(), user.UserID, now).Return(nil)
	mocks.history.EXPECT().Append(gomock.Any(), &user.UserID, "10.0.0.1", "go-test", true).Return(nil)
	mocks.sessions.EXPECT().
		Create(gomock.Any(), user.UserID, "10.0.0.1", "go-test", expiresAt).
		Return(session, nil)

	credential, summary, err := svc.Login(context.Background(), user.Email, "correct horse", "10.0.0.1", "go-test")
	require.NoError(t, err)

	assert.Equal(t, user.UserID, credential.UserID)
	assert.Equal(t, session.Token, credential.SessionToken)
	assert.Equal(t, models.UserSummary{UserID: 42, Username: "gopher", Email: "gopher@example.com"}, summary)

	// the returned string must verify against the same key and issuer
	parsed, err := utils.ValidateAndParseCredential(credential.String(), testSignKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, session.Token, parsed.SessionToken)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())

	mocks.users.EXPECT().
		FindUserByEmail(gomock.Any(), "ghost@example.com").
		Return(models.User{}, store.ErrNoUserWasFound)
	mocks.history.EXPECT().
		Append(gomock.Any(), gomock.Nil(), "10.0.0.1", "go-test", false).
		Return(nil)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever", "10.0.0.1", "go-test")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())
	user := testUser()

	mocks.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
	mocks.users.EXPECT().IncrementFailedAttempts(gomock.Any(), user.UserID).Return(1, nil)
	mocks.history.EXPECT().Append(gomock.Any(), &user.UserID, "10.0.0.1", "go-test", false).Return(nil)

	_, _, err := svc.Login(context.Background(), user.Email, "wrong", "10.0.0.1", "go-test")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_LockoutAtThreshold(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())
	user := testUser()
	user.FailedLoginAttempts = 4

	mocks.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
	mocks.users.EXPECT().IncrementFailedAttempts(gomock.Any(), user.UserID).Return(5, nil)
	mocks.history.EXPECT().Append(gomock.Any(), &user.UserID, "10.0.0.1", "go-test", false).Return(nil)
	mocks.users.EXPECT().LockAccount(gomock.Any(), user.UserID).Return(nil)

	_, _, err := svc.Login(context.Background(), user.Email, "wrong", "10.0.0.1", "go-test")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

// lockoutUserStore is an in-memory credential store safe for concurrent use.
// IncrementFailedAttempts is a single atomic add, mirroring the
// one-statement UPDATE the real repository issues, and LockAccount records
// how many times the lock actually transitioned from unlocked to locked.
type lockoutUserStore struct {
	user models.User

	attempts atomic.Int64

	mu          sync.Mutex
	locked      bool
	transitions int
}

func (s *lockoutUserStore) FindUserByEmail(context.Context, string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user
	u.Locked = s.locked
	u.FailedLoginAttempts = int(s.attempts.Load())
	return u, nil
}

func (s *lockoutUserStore) IncrementFailedAttempts(context.Context, int64) (int, error) {
	return int(s.attempts.Add(1)), nil
}

func (s *lockoutUserStore) LockAccount(context.Context, int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.locked {
		s.locked = true
		s.transitions++
	}
	return nil
}

func (s *lockoutUserStore) lockTransitions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitions
}

func (s *lockoutUserStore) CreateUser(context.Context, models.User) (models.User, error) {
	return models.User{}, errors.New("not implemented")
}

func (s *lockoutUserStore) FindUserByID(context.Context, int64) (models.User, error) {
	return models.User{}, errors.New("not implemented")
}

func (s *lockoutUserStore) UpdateLastLogin(context.Context, int64, time.Time) error {
	return errors.New("not implemented")
}

func (s *lockoutUserStore) UpdatePasswordAndResetCounter(context.Context, string, string, string, time.Time) (int64, error) {
	return 0, errors.New("not implemented")
}

// recordingHistory counts appended rows; Append is safe for concurrent use.
type recordingHistory struct{ rows atomic.Int64 }

func (h *recordingHistory) Append(context.Context, *int64, string, string, bool) error {
	h.rows.Add(1)
	return nil
}

func (h *recordingHistory) ListForUser(context.Context, int64, uint64) ([]models.LoginHistoryEntry, error) {
	return nil, nil
}

func TestLogin_ConcurrentFailures_SingleLockout(t *testing.T) {
	const parallel = 12

	users := &lockoutUserStore{user: testUser()}
	history := &recordingHistory{}

	cfg := config.Auth{
		TokenSignKey:     testSignKey,
		TokenIssuer:      testIssuer,
		LockoutThreshold: 5,
		SessionDuration:  7 * 24 * time.Hour,
	}

	svc := NewAuthService(&store.Storages{
		UserRepository:         users,
		LoginHistoryRepository: history,
	}, fakeHasher{}, fixedClock{now: time.Now()}, cfg, logger.Nop())

	errs := make([]error, parallel)
	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Login(context.Background(), "gopher@example.com", "wrong", "10.0.0.1", "go-test")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.Error(t, err)
		assert.Truef(t, errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrAccountLocked),
			"unexpected failure kind: %v", err)
	}

	assert.Equal(t, 1, users.lockTransitions(), "lock must transition exactly once")

	// every attempt that reached the password check incremented the counter
	// exactly once and left one history row; attempts that observed the lock
	// touched neither
	attempts := users.attempts.Load()
	assert.GreaterOrEqual(t, attempts, int64(cfg.LockoutThreshold))
	assert.LessOrEqual(t, attempts, int64(parallel))
	assert.Equal(t, attempts, history.rows.Load())
}

func TestLogin_LockedAccount(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())
	user := testUser()
	user.Locked = true

	// no counter increment, no history row, no password check side effects
	mocks.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)

	_, _, err := svc.Login(context.Background(), user.Email, "correct horse", "10.0.0.1", "go-test")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLogin_StorageFault(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())

	mocks.users.EXPECT().
		FindUserByEmail(gomock.Any(), gomock.Any()).
		Return(models.User{}, errors.New("connection refused"))

	_, _, err := svc.Login(context.Background(), "gopher@example.com", "pw", "10.0.0.1", "go-test")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestAuthenticate_Success(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	svc, mocks := newTestAuthService(t, now)

	credential, err := utils.GenerateCredential(testIssuer, 42, "opaque-session-token", now, now.Add(time.Hour), testSignKey)
	require.NoError(t, err)

	mocks.sessions.EXPECT().
		FindActiveByToken(gomock.Any(), "opaque-session-token", now).
		Return(models.Session{SessionID: 7, UserID: 42, Token: "opaque-session-token", Active: true}, nil)

	parsed, err := svc.Authenticate(context.Background(), credential.String())
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, "opaque-session-token", parsed.SessionToken)
}

func TestAuthenticate_DeadSession(t *testing.T) {
	now := time.Now()
	svc, mocks := newTestAuthService(t, now)

	credential, err := utils.GenerateCredential(testIssuer, 42, "opaque-session-token", now, now.Add(time.Hour), testSignKey)
	require.NoError(t, err)

	mocks.sessions.EXPECT().
		FindActiveByToken(gomock.Any(), "opaque-session-token", gomock.Any()).
		Return(models.Session{}, store.ErrNoSessionWasFound)

	_, err = svc.Authenticate(context.Background(), credential.String())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuthenticate_MalformedCredential(t *testing.T) {
	svc, _ := newTestAuthService(t, time.Now())

	_, err := svc.Authenticate(context.Background(), "not.a.credential")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestLogout(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())

	mocks.sessions.EXPECT().Invalidate(gomock.Any(), "opaque-session-token").Return(nil)

	assert.NoError(t, svc.Logout(context.Background(), "opaque-session-token"))
	assert.ErrorIs(t, svc.Logout(context.Background(), ""), ErrInvalidDataProvided)
}

func TestRequestPasswordReset_Success(t *testing.T) {
	now := time.Now()
	svc, mocks := newTestAuthService(t, now)
	user := testUser()

	mocks.users.EXPECT().FindUserByEmail(gomock.Any(), user.Email).Return(user, nil)
	mocks.resetTokens.EXPECT().
		Create(gomock.Any(), user.UserID, now.Add(time.Hour)).
		Return(models.PasswordResetToken{TokenID: 1, UserID: user.UserID, Token: "reset-token"}, nil)

	token, err := svc.RequestPasswordReset(context.Background(), user.Email)
	require.NoError(t, err)
	assert.Equal(t, "reset-token", token)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())

	mocks.users.EXPECT().
		FindUserByEmail(gomock.Any(), "ghost@example.com").
		Return(models.User{}, store.ErrNoUserWasFound)

	// unknown email yields no token and no error, same shape as success
	token, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestResetPassword_Success(t *testing.T) {
	now := time.Now()
	svc, mocks := newTestAuthService(t, now)

	mocks.users.EXPECT().
		UpdatePasswordAndResetCounter(gomock.Any(), "reset-token", "hashed:new password", "salt", now).
		Return(int64(42), nil)

	assert.NoError(t, svc.ResetPassword(context.Background(), "reset-token", "new password"))
}

func TestResetPassword_ConsumedToken(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())

	mocks.users.EXPECT().
		UpdatePasswordAndResetCounter(gomock.Any(), "reset-token", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), store.ErrNoResetTokenWasFound)

	err := svc.ResetPassword(context.Background(), "reset-token", "new password")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestResetPassword_InvalidData(t *testing.T) {
	svc, _ := newTestAuthService(t, time.Now())

	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "", "new password"), ErrInvalidDataProvided)
	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "reset-token", ""), ErrInvalidDataProvided)
}

func TestGenerateCsrfToken(t *testing.T) {
	now := time.Now()
	svc, mocks := newTestAuthService(t, now)

	mocks.csrfTokens.EXPECT().
		Create(gomock.Any(), int64(42), now.Add(time.Hour)).
		Return(models.CsrfToken{TokenID: 1, UserID: 42, Token: "csrf-token"}, nil)

	token, err := svc.GenerateCsrfToken(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "csrf-token", token)
}

func TestValidateCsrfToken(t *testing.T) {
	now := time.Now()
	svc, mocks := newTestAuthService(t, now)

	gomock.InOrder(
		mocks.csrfTokens.EXPECT().ConsumeValid(gomock.Any(), int64(42), "csrf-token", now).Return(true, nil),
		mocks.csrfTokens.EXPECT().ConsumeValid(gomock.Any(), int64(42), "csrf-token", now).Return(false, nil),
	)

	ok, err := svc.ValidateCsrfToken(context.Background(), 42, "csrf-token")
	require.NoError(t, err)
	assert.True(t, ok)

	// the first validation consumed the token
	ok, err = svc.ValidateCsrfToken(context.Background(), 42, "csrf-token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateCsrfToken_Empty(t *testing.T) {
	svc, _ := newTestAuthService(t, time.Now())

	ok, err := svc.ValidateCsrfToken(context.Background(), 42, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginHistory(t *testing.T) {
	svc, mocks := newTestAuthService(t, time.Now())
	userID := int64(42)

	entries := []models.LoginHistoryEntry{
		{EntryID: 2, UserID: &userID, IPAddress: "10.0.0.1", Success: true},
		{EntryID: 1, UserID: &userID, IPAddress: "10.0.0.1", Success: false},
	}

	mocks.history.EXPECT().ListForUser(gomock.Any(), userID, uint64(20)).Return(entries, nil)

	got, err := svc.LoginHistory(context.Background(), userID, 20)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/config"
	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/internal/events"
	"github.com/samueladole/crovio/internal/repository"
	"github.com/samueladole/crovio/pkg/util/errorutil"
)

const testPassword = "Aa1!aaaa"

type authFixture struct {
	users     *MockUserRepository
	codec     *auth.TokenCodec
	hasher    *auth.PasswordHasher
	metrics   *countingMetrics
	published []events.EventType
	svc       *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	codec, err := auth.NewTokenCodec("access-secret-for-tests", "refresh-secret-for-tests",
		auth.WithDenylist(auth.NewMemoryDenylist(100, 8*24*time.Hour)))
	require.NoError(t, err)

	f := &authFixture{
		users:   new(MockUserRepository),
		codec:   codec,
		hasher:  auth.NewPasswordHasher(bcrypt.MinCost),
		metrics: newCountingMetrics(),
	}

	dispatcher := events.NewInMemoryDispatcher(nil)
	for _, et := range []events.EventType{
		events.EventUserRegistered, events.EventLoginSucceeded, events.EventLoginFailed,
		events.EventTokenRefreshed, events.EventLogout,
	} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			f.published = append(f.published, e.Type)
			return nil
		})
	}

	f.svc = NewAuthService(config.AuthConfig{
		AccessTTLMinutes:  15,
		RefreshTTLMinutes: 7 * 24 * 60,
		PhoneRegion:       "US",
	}, AuthDependencies{
		UserRepo:   f.users,
		Codec:      codec,
		Hasher:     f.hasher,
		Dispatcher: dispatcher,
		Metrics:    f.metrics,
	})
	return f
}

func (f *authFixture) seedAccount(t *testing.T, id domain.Identifier) domain.Subject {
	t.Helper()
	hash, err := f.hasher.Hash(testPassword)
	require.NoError(t, err)
	subject := domain.Subject("3f1c2b7e-8a55-4a0e-9f3d-1b2c3d4e5f60")
	f.users.On("FindByIdentifier", mock.Anything, id).
		Return(&domain.Credential{Subject: subject, PasswordHash: hash}, nil)
	return subject
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	subject := f.seedAccount(t, domain.Identifier{Email: "a@x.com"})

	pair, err := f.svc.Login(context.Background(), LoginInput{Email: "  A@x.com ", Password: testPassword})
	require.NoError(t, err)

	assert.Equal(t, subject, pair.Subject)
	assert.Equal(t, "bearer", pair.TokenType)

	access, err := f.codec.Decode(context.Background(), pair.AccessToken, domain.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, subject, access.SubjectID())
	assert.Equal(t, 15*time.Minute, access.ExpiresAtTime().Sub(access.IssuedAtTime()))

	refresh, err := f.codec.Decode(context.Background(), pair.RefreshToken, domain.PurposeRefresh)
	require.NoError(t, err)
	assert.Equal(t, subject, refresh.SubjectID())
	assert.Equal(t, 7*24*time.Hour, refresh.ExpiresAtTime().Sub(refresh.IssuedAtTime()))

	assert.Equal(t, 1, f.metrics.issued["access"])
	assert.Equal(t, 1, f.metrics.issued["refresh"])
	assert.Equal(t, []events.EventType{events.EventLoginSucceeded}, f.published)
}

func TestAuthService_LoginByPhone(t *testing.T) {
	f := newAuthFixture(t)
	subject := f.seedAccount(t, domain.Identifier{Phone: "+12025550143"})

	pair, err := f.svc.Login(context.Background(), LoginInput{Phone: "(202) 555-0143", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, subject, pair.Subject)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, domain.Identifier{Email: "a@x.com"})
	f.users.On("FindByIdentifier", mock.Anything, domain.Identifier{Email: "ghost@x.com"}).Return(nil, nil)

	_, wrongPassword := f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "Aa1!aaab"})
	_, unknownUser := f.svc.Login(context.Background(), LoginInput{Email: "ghost@x.com", Password: testPassword})

	assert.ErrorIs(t, wrongPassword, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, auth.ErrInvalidCredentials)
	assert.Equal(t, errorutil.ToDomainError(wrongPassword), errorutil.ToDomainError(unknownUser))
	assert.Equal(t, http.StatusUnauthorized, errorutil.ToDomainError(wrongPassword).HTTPStatus)
	assert.Equal(t, 2, f.metrics.failures["invalid_credentials"])
	assert.Equal(t, []events.EventType{events.EventLoginFailed, events.EventLoginFailed}, f.published)
}

func TestAuthService_LoginRejectsSuffixPastBcryptLimit(t *testing.T) {
	f := newAuthFixture(t)
	long := testPassword + strings.Repeat("z", auth.MaxPasswordBytes-len(testPassword))
	hash, err := f.hasher.Hash(long)
	require.NoError(t, err)
	subject := domain.Subject("3f1c2b7e-8a55-4a0e-9f3d-1b2c3d4e5f60")
	f.users.On("FindByIdentifier", mock.Anything, domain.Identifier{Email: "a@x.com"}).
		Return(&domain.Credential{Subject: subject, PasswordHash: hash}, nil)

	_, err = f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: long + "anything"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	pair, err := f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: long})
	require.NoError(t, err)
	assert.Equal(t, subject, pair.Subject)
}

func TestAuthService_LoginRequiresExactlyOneIdentifier(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Phone: "+12025550143", Password: testPassword})
	assert.ErrorIs(t, err, auth.ErrAmbiguousIdentifier)

	_, err = f.svc.Login(context.Background(), LoginInput{Password: testPassword})
	assert.ErrorIs(t, err, auth.ErrAmbiguousIdentifier)

	f.users.AssertNotCalled(t, "FindByIdentifier", mock.Anything, mock.Anything)
}

func TestAuthService_LoginStoreFailureIsUnavailable(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("FindByIdentifier", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: testPassword})
	assert.ErrorIs(t, err, auth.ErrUnavailable)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, http.StatusServiceUnavailable, errorutil.ToDomainError(err).HTTPStatus)
}

func TestAuthService_LoginCancelledIsUnavailable(t *testing.T) {
	f := newAuthFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Login(ctx, LoginInput{Email: "a@x.com", Password: testPassword})
	assert.ErrorIs(t, err, auth.ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	subject := f.seedAccount(t, domain.Identifier{Email: "a@x.com"})
	f.users.On("RoleOf", mock.Anything, subject).Return("user", nil)

	pair, err := f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: testPassword})
	require.NoError(t, err)

	access, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "bearer", access.TokenType)

	claims, err := f.codec.Decode(context.Background(), access.Token, domain.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.SubjectID())

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, err := f.svc.Refresh(context.Background(), pair.AccessToken)
		assert.ErrorIs(t, err, auth.ErrWrongPurpose)
		assert.Equal(t, http.StatusUnauthorized, errorutil.ToDomainError(err).HTTPStatus)
		assert.Equal(t, 1, f.metrics.failures["wrong_purpose"])
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.svc.Refresh(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, auth.ErrMalformedToken)
	})
}

func TestAuthService_RefreshDeletedAccount(t *testing.T) {
	f := newAuthFixture(t)
	subject := f.seedAccount(t, domain.Identifier{Email: "a@x.com"})
	f.users.On("RoleOf", mock.Anything, subject).Return("", fmt.Errorf("role: %w", pgx.ErrNoRows))

	pair, err := f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: testPassword})
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	subject := f.seedAccount(t, domain.Identifier{Email: "a@x.com"})
	f.users.On("RoleOf", mock.Anything, subject).Return("user", nil)

	pair, err := f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken, pair.AccessToken))

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRevoked)

	_, err = f.codec.Decode(context.Background(), pair.AccessToken, domain.PurposeAccess)
	assert.ErrorIs(t, err, auth.ErrRevoked)

	assert.Contains(t, f.published, events.EventLogout)
}

func TestAuthService_LogoutRejectsAccessTokenAsRefresh(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, domain.Identifier{Email: "a@x.com"})

	pair, err := f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: testPassword})
	require.NoError(t, err)

	err = f.svc.Logout(context.Background(), pair.AccessToken, "")
	assert.ErrorIs(t, err, auth.ErrWrongPurpose)
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)
	phone := "(202) 555-0143"

	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@x.com" && u.Role == domain.RoleUser && *u.Phone == "+12025550143"
	})).Run(func(args mock.Arguments) {
		u := args.Get(1).(*domain.User)
		u.ID = "0b7c1f1e-2d3a-4c5b-8e9f-a0b1c2d3e4f5"
		u.CreatedAt = time.Now()
	}).Return(nil)

	user, err := f.svc.Register(context.Background(), RegisterInput{
		Email:       "New@x.com",
		Password:    testPassword,
		Phone:       &phone,
		AcceptTerms: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "0b7c1f1e-2d3a-4c5b-8e9f-a0b1c2d3e4f5", user.ID)

	ok, err := f.hasher.Verify(testPassword, user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []events.EventType{events.EventUserRegistered}, f.published)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: users_email_key", repository.ErrDuplicate))

	_, err := f.svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: testPassword, AcceptTerms: true})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errorutil.ToDomainError(err).HTTPStatus)
}

func TestAuthService_RegisterRequiresTerms(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: testPassword})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, errorutil.ToDomainError(err).HTTPStatus)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

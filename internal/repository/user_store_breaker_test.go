package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/config"
	"github.com/samueladole/crovio/internal/domain"
)

type fakeUsers struct {
	calls int
	err   error
	role  domain.Role
}

func (f *fakeUsers) Create(context.Context, *domain.User) error { f.calls++; return f.err }

func (f *fakeUsers) GetByID(context.Context, string) (*domain.User, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeUsers) GetByPhone(context.Context, string) (*domain.User, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeUsers) FindByIdentifier(context.Context, domain.Identifier) (*domain.Credential, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeUsers) RoleOf(context.Context, domain.Subject) (domain.Role, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.role, nil
}

type stateLog []int

func (s *stateLog) RecordBreakerState(_ string, state int) { *s = append(*s, state) }

func testBreakerConfig() config.BreakerConfig {
	return config.BreakerConfig{MaxRequests: 1, IntervalSeconds: 60, TimeoutSeconds: 60, ConsecutiveFailures: 3}
}

func TestBreakerUserRepository_TripsOnStoreFailures(t *testing.T) {
	inner := &fakeUsers{err: errors.New("connection refused")}
	var states stateLog
	repo := NewBreakerUserRepository(inner, testBreakerConfig(), &states, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.RoleOf(ctx, "s")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrUnavailable)
	}

	_, err := repo.FindByIdentifier(ctx, domain.Identifier{Email: "a@x.com"})
	assert.ErrorIs(t, err, auth.ErrUnavailable)
	assert.Equal(t, 3, inner.calls, "open breaker must not reach the store")
	assert.Equal(t, stateLog{2}, states)
}

func TestBreakerUserRepository_NotFoundIsHealthy(t *testing.T) {
	inner := &fakeUsers{err: fmt.Errorf("lookup: %w", pgx.ErrNoRows)}
	repo := NewBreakerUserRepository(inner, testBreakerConfig(), nil, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := repo.GetByEmail(ctx, "missing@x.com")
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	}
	assert.Equal(t, 10, inner.calls)
}

func TestBreakerUserRepository_PassesResults(t *testing.T) {
	inner := &fakeUsers{role: domain.RoleDealer}
	repo := NewBreakerUserRepository(inner, testBreakerConfig(), nil, nil)

	role, err := repo.RoleOf(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDealer, role)

	cred, err := repo.FindByIdentifier(context.Background(), domain.Identifier{Email: "nobody@x.com"})
	require.NoError(t, err)
	assert.Nil(t, cred)
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/config"
	"github.com/samueladole/crovio/internal/domain"
)

// BreakerObserver receives circuit breaker transitions.
type BreakerObserver interface {
	RecordBreakerState(name string, state int)
}

// breakerUserRepository trips after consecutive store failures so login and
// role checks fail fast with Unavailable instead of piling up on a dead pool.
type breakerUserRepository struct {
	next UserRepository
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerUserRepository decorates next with a circuit breaker.
func NewBreakerUserRepository(next UserRepository, cfg config.BreakerConfig, observer BreakerObserver, logger *zap.Logger) UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "user-store",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval(),
		Timeout:     cfg.Timeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isStoreHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if observer != nil {
				observer.RecordBreakerState(name, int(to))
			}
		},
	}
	return &breakerUserRepository{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// isStoreHealthy treats answers the database gave on purpose as successes.
func isStoreHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, context.Canceled)
}

func (r *breakerUserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.next.Create(ctx, user)
	})
	return openStateUnavailable(err)
}

func (r *breakerUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return executeUser(r.cb, func() (*domain.User, error) { return r.next.GetByID(ctx, id) })
}

func (r *breakerUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return executeUser(r.cb, func() (*domain.User, error) { return r.next.GetByEmail(ctx, email) })
}

func (r *breakerUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return executeUser(r.cb, func() (*domain.User, error) { return r.next.GetByPhone(ctx, phone) })
}

func (r *breakerUserRepository) FindByIdentifier(ctx context.Context, id domain.Identifier) (*domain.Credential, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.FindByIdentifier(ctx, id)
	})
	if err != nil {
		return nil, openStateUnavailable(err)
	}
	cred, _ := res.(*domain.Credential)
	return cred, nil
}

func (r *breakerUserRepository) RoleOf(ctx context.Context, subject domain.Subject) (domain.Role, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.RoleOf(ctx, subject)
	})
	if err != nil {
		return "", openStateUnavailable(err)
	}
	role, _ := res.(domain.Role)
	return role, nil
}

func executeUser(cb *gobreaker.CircuitBreaker, fn func() (*domain.User, error)) (*domain.User, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, openStateUnavailable(err)
	}
	user, _ := res.(*domain.User)
	return user, nil
}

func openStateUnavailable(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return auth.Unavailable(err)
	}
	return err
}

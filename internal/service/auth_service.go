package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/config"
	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/internal/events"
	"github.com/samueladole/crovio/internal/repository"
	"github.com/samueladole/crovio/pkg/util/errorutil"
)

// AuthMetrics receives authentication counters.
type AuthMetrics interface {
	RecordAuthFailure(kind string)
	RecordTokenIssued(purpose string)
}

// LoginInput carries login credentials. Exactly one of Email and Phone is set.
type LoginInput struct {
	Email    string
	Phone    string
	Password string
}

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Email       string
	Password    string
	Phone       *string
	Username    *string
	FirstName   *string
	LastName    *string
	Location    *string
	AcceptTerms bool
}

// AuthService issues and revokes sessions and registers accounts.
type AuthService struct {
	users      repository.UserRepository
	codec      *auth.TokenCodec
	hasher     *auth.PasswordHasher
	dispatcher events.Dispatcher
	metrics    AuthMetrics
	logger     *zap.Logger
	cfg        config.AuthConfig
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Codec      *auth.TokenCodec
	Hasher     *auth.PasswordHasher
	Dispatcher events.Dispatcher
	Metrics    AuthMetrics
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		codec:      deps.Codec,
		hasher:     deps.Hasher,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// Register creates an account with role user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if !in.AcceptTerms {
		return nil, errorutil.NewValidationError("terms must be accepted", map[string]any{"accept_terms": "must be true"})
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, auth.Unavailable(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		Email:        auth.NormalizeEmail(in.Email),
		Username:     trimmed(in.Username),
		FirstName:    trimmed(in.FirstName),
		LastName:     trimmed(in.LastName),
		Location:     trimmed(in.Location),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		AcceptTerms:  true,
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) != "" {
		phone := auth.NormalizePhone(*in.Phone, s.cfg.PhoneRegion)
		user.Phone = &phone
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errorutil.NewConflict("account already exists", nil)
		}
		return nil, unavailable(err)
	}

	s.publish(ctx, events.New(events.EventUserRegistered, user.Subject(), events.UserRegisteredPayload{Role: user.Role}))
	return user, nil
}

// Login verifies a password credential and mints an access/refresh pair.
// Unknown identifiers and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.TokenPair, error) {
	id, err := auth.NewIdentifier(in.Email, in.Phone, s.cfg.PhoneRegion)
	if err != nil {
		return nil, err
	}
	channel := "email"
	if id.Phone != "" {
		channel = "phone"
	}

	if err := ctx.Err(); err != nil {
		return nil, auth.Unavailable(err)
	}

	cred, err := s.users.FindByIdentifier(ctx, id)
	if err != nil {
		return nil, unavailable(err)
	}
	if cred == nil {
		s.hasher.Burn(in.Password)
		return nil, s.loginFailed(ctx, channel)
	}

	ok, err := s.hasher.Verify(in.Password, cred.PasswordHash)
	if err != nil {
		s.logger.Error("stored password digest unreadable", zap.String("subject", cred.Subject.String()), zap.Error(err))
		return nil, auth.Unavailable(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, auth.Unavailable(err)
	}
	if !ok {
		return nil, s.loginFailed(ctx, channel)
	}

	access, accessClaims, err := s.codec.Encode(cred.Subject, domain.PurposeAccess, s.cfg.AccessTTL())
	if err != nil {
		return nil, auth.Unavailable(err)
	}
	refresh, refreshClaims, err := s.codec.Encode(cred.Subject, domain.PurposeRefresh, s.cfg.RefreshTTL())
	if err != nil {
		return nil, auth.Unavailable(err)
	}
	s.issued(domain.PurposeAccess)
	s.issued(domain.PurposeRefresh)

	s.publish(ctx, events.New(events.EventLoginSucceeded, cred.Subject, events.LoginPayload{Channel: channel}))

	return &domain.TokenPair{
		Subject:          cred.Subject,
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenType:        domain.TokenTypeBearer,
		AccessExpiresAt:  accessClaims.ExpiresAtTime(),
		RefreshExpiresAt: refreshClaims.ExpiresAtTime(),
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AccessToken, error) {
	claims, err := s.decode(ctx, refreshToken, domain.PurposeRefresh)
	if err != nil {
		return nil, err
	}

	subject := claims.SubjectID()
	if _, err := auth.CurrentRole(ctx, s.users, subject); err != nil {
		if auth.KindOf(err) != auth.KindUnavailable {
			s.failure(auth.KindUnauthenticated)
		}
		return nil, err
	}

	access, accessClaims, err := s.codec.Encode(subject, domain.PurposeAccess, s.cfg.AccessTTL())
	if err != nil {
		return nil, auth.Unavailable(err)
	}
	s.issued(domain.PurposeAccess)

	s.publish(ctx, events.New(events.EventTokenRefreshed, subject, events.TokenPayload{TokenID: claims.ID}))

	return &domain.AccessToken{
		Token:     access,
		TokenType: domain.TokenTypeBearer,
		ExpiresAt: accessClaims.ExpiresAtTime(),
	}, nil
}

// Logout revokes the refresh token until it would have expired. A valid
// access token from the same subject is revoked too.
func (s *AuthService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	claims, err := s.decode(ctx, refreshToken, domain.PurposeRefresh)
	if err != nil {
		return err
	}
	if err := s.codec.Revoke(ctx, claims); err != nil {
		return err
	}

	if accessToken != "" {
		accessClaims, err := s.codec.Decode(ctx, accessToken, domain.PurposeAccess)
		if err == nil && accessClaims.SubjectID() == claims.SubjectID() {
			if err := s.codec.Revoke(ctx, accessClaims); err != nil {
				return err
			}
		}
	}

	s.publish(ctx, events.New(events.EventLogout, claims.SubjectID(), events.TokenPayload{TokenID: claims.ID}))
	return nil
}

func (s *AuthService) decode(ctx context.Context, raw string, purpose domain.TokenPurpose) (*auth.Claims, error) {
	claims, err := s.codec.Decode(ctx, raw, purpose)
	if err != nil {
		kind := auth.KindOf(err)
		if kind != auth.KindUnavailable {
			s.failure(kind)
			s.logger.Debug("token rejected", zap.String("purpose", string(purpose)), zap.String("kind", string(kind)))
		}
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) loginFailed(ctx context.Context, channel string) error {
	s.failure(auth.KindInvalidCredentials)
	s.publish(ctx, events.New(events.EventLoginFailed, "", events.LoginFailedPayload{
		Channel: channel,
		Reason:  string(auth.KindInvalidCredentials),
	}))
	return auth.ErrInvalidCredentials
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(context.WithoutCancel(ctx), event)
}

func (s *AuthService) failure(kind auth.ErrorKind) {
	if s.metrics != nil {
		s.metrics.RecordAuthFailure(string(kind))
	}
}

func (s *AuthService) issued(purpose domain.TokenPurpose) {
	if s.metrics != nil {
		s.metrics.RecordTokenIssued(string(purpose))
	}
}

// unavailable wraps store failures, keeping errors that already carry the
// Unavailable kind (for example an open circuit breaker).
func unavailable(err error) error {
	if auth.KindOf(err) == auth.KindUnavailable {
		return err
	}
	return auth.Unavailable(err)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

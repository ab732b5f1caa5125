package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/samueladole/crovio/internal/domain"
)

// FailureRecorder counts authentication failures by kind.
type FailureRecorder interface {
	RecordAuthFailure(kind string)
}

// IdentityResolver turns a bearer access token into a Subject. It has no
// side effects beyond logging and metrics and is safe to call per request.
type IdentityResolver struct {
	codec    *TokenCodec
	logger   *zap.Logger
	failures FailureRecorder
}

// NewIdentityResolver builds a resolver. logger and failures may be nil.
func NewIdentityResolver(codec *TokenCodec, logger *zap.Logger, failures FailureRecorder) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityResolver{codec: codec, logger: logger, failures: failures}
}

// Resolve validates an access token. Every decode failure is reported as
// ErrUnauthenticated; the precise kind is only logged and counted. An
// unreachable denylist is reported as Unavailable.
func (r *IdentityResolver) Resolve(ctx context.Context, raw string) (domain.Subject, error) {
	claims, err := r.codec.Decode(ctx, raw, domain.PurposeAccess)
	if err != nil {
		kind := KindOf(err)
		if r.failures != nil {
			r.failures.RecordAuthFailure(string(kind))
		}
		if kind == KindUnavailable {
			r.logger.Warn("token check unavailable", zap.Error(err))
			return "", err
		}
		r.logger.Debug("access token rejected", zap.String("kind", string(kind)))
		return "", ErrUnauthenticated
	}
	return claims.SubjectID(), nil
}

// RejectHeader counts a request whose Authorization header holds no bearer
// token and returns ErrUnauthenticated.
func (r *IdentityResolver) RejectHeader(err error) error {
	kind := kindMalformedBearer
	if errors.Is(err, errMissingAuthorization) {
		kind = kindMissingBearer
	}
	if r.failures != nil {
		r.failures.RecordAuthFailure(kind)
	}
	r.logger.Debug("bearer header rejected", zap.String("kind", kind))
	return ErrUnauthenticated
}

// Failure kinds for requests that never reach the codec.
const (
	kindMissingBearer   = "missing_bearer"
	kindMalformedBearer = "malformed_bearer"
)

var (
	errMissingAuthorization = errors.New("missing authorization header")
	errInvalidAuthorization = errors.New("invalid authorization header")
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthorization
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errInvalidAuthorization
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errInvalidAuthorization
	}
	return token, nil
}

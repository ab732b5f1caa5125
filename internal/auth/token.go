package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/samueladole/crovio/internal/domain"
)

var errUnknownPurpose = errors.New("unknown token purpose")

// Claims describes the JWT payload. The signature covers every field.
type Claims struct {
	Purpose domain.TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// SubjectID returns the token subject.
func (c *Claims) SubjectID() domain.Subject {
	return domain.Subject(c.RegisteredClaims.Subject)
}

// IssuedAtTime returns iat, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns exp, or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenCodec signs and verifies stateless bearer tokens. Each purpose has its
// own HMAC secret so a leaked access key cannot forge refresh tokens.
// A TokenCodec is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	secrets  map[domain.TokenPurpose][]byte
	leeway   time.Duration
	issuer   string
	now      func() time.Time
	denylist Denylist
}

// CodecOption customizes a TokenCodec.
type CodecOption func(*TokenCodec)

// WithLeeway tolerates clock skew on the expiry check.
func WithLeeway(d time.Duration) CodecOption {
	return func(c *TokenCodec) {
		if d > 0 {
			c.leeway = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIssuer stamps and requires the iss claim.
func WithIssuer(issuer string) CodecOption {
	return func(c *TokenCodec) { c.issuer = issuer }
}

// WithDenylist makes Decode reject revoked token IDs.
func WithDenylist(d Denylist) CodecOption {
	return func(c *TokenCodec) { c.denylist = d }
}

// NewTokenCodec builds a codec from the two signing secrets.
func NewTokenCodec(accessSecret, refreshSecret string, opts ...CodecOption) (*TokenCodec, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	c := &TokenCodec{
		secrets: map[domain.TokenPurpose][]byte{
			domain.PurposeAccess:  []byte(accessSecret),
			domain.PurposeRefresh: []byte(refreshSecret),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encode mints a token for subject. ttl is truncated to whole seconds.
func (c *TokenCodec) Encode(subject domain.Subject, purpose domain.TokenPurpose, ttl time.Duration) (string, *Claims, error) {
	if subject == "" {
		return "", nil, errors.New("subject required")
	}
	if !purpose.Valid() {
		return "", nil, fmt.Errorf("%w: %q", errUnknownPurpose, purpose)
	}
	ttl = ttl.Truncate(time.Second)
	if ttl <= 0 {
		return "", nil, fmt.Errorf("ttl must be at least one second")
	}

	now := c.now().Truncate(time.Second)
	claims := &Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   string(subject),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secrets[purpose])
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Decode verifies raw and returns its claims. Failures are *Error values of
// kind MalformedToken, BadSignature, Expired, WrongPurpose or Revoked;
// Unavailable is returned when the denylist cannot be consulted.
func (c *TokenCodec) Decode(ctx context.Context, raw string, expected domain.TokenPurpose) (*Claims, error) {
	if raw == "" {
		return nil, newError(KindMalformedToken, errors.New("empty token"))
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, c.keyFor, c.parserOptions()...)
	if err != nil {
		return nil, classifyJWTError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, newError(KindMalformedToken, errors.New("invalid token claims"))
	}
	if _, err := uuid.Parse(claims.RegisteredClaims.Subject); err != nil {
		return nil, newError(KindMalformedToken, fmt.Errorf("subject: %w", err))
	}
	if claims.ID == "" || claims.IssuedAt == nil {
		return nil, newError(KindMalformedToken, errors.New("missing jti or iat"))
	}
	if claims.Purpose != expected {
		return nil, newError(KindWrongPurpose, fmt.Errorf("got %q, want %q", claims.Purpose, expected))
	}

	if c.denylist != nil {
		revoked, err := c.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, Unavailable(fmt.Errorf("denylist lookup: %w", err))
		}
		if revoked {
			return nil, ErrRevoked
		}
	}

	return claims, nil
}

// Revoke adds the token behind claims to the denylist until it expires.
func (c *TokenCodec) Revoke(ctx context.Context, claims *Claims) error {
	if c.denylist == nil {
		return errors.New("revocation not configured")
	}
	if err := c.denylist.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		return Unavailable(fmt.Errorf("denylist revoke: %w", err))
	}
	return nil
}

// keyFor selects the secret from the token's own purpose claim, so a token of
// the other purpose still verifies and is then reported as WrongPurpose.
func (c *TokenCodec) keyFor(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing method")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errUnknownPurpose
	}
	secret, ok := c.secrets[claims.Purpose]
	if !ok {
		return nil, errUnknownPurpose
	}
	return secret, nil
}

func (c *TokenCodec) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	}
	if c.leeway > 0 {
		opts = append(opts, jwt.WithLeeway(c.leeway))
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	return opts
}

func classifyJWTError(err error) *Error {
	switch {
	case errors.Is(err, errUnknownPurpose):
		return newError(KindMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newError(KindMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return newError(KindBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(KindExpired, err)
	default:
		return newError(KindMalformedToken, err)
	}
}

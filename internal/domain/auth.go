package domain

import "time"

// Subject is the stable identifier (UUID) of an authenticated principal.
type Subject string

// String implements fmt.Stringer.
func (s Subject) String() string { return string(s) }

// TokenPurpose discriminates access tokens from refresh tokens.
type TokenPurpose string

const (
	PurposeAccess  TokenPurpose = "access"
	PurposeRefresh TokenPurpose = "refresh"
)

// Valid reports whether p is a known purpose.
func (p TokenPurpose) Valid() bool {
	return p == PurposeAccess || p == PurposeRefresh
}

// TokenTypeBearer is the token_type returned to clients.
const TokenTypeBearer = "bearer"

// Identifier is the login handle of a credential. Exactly one field is set.
type Identifier struct {
	Email string
	Phone string
}

// Credential is the projection of a user needed to authenticate.
type Credential struct {
	Subject      Subject
	PasswordHash string
}

// AccessToken is a freshly minted access token.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Subject          Subject
	AccessToken      string
	RefreshToken     string
	TokenType        string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

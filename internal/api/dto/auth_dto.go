package dto

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/samueladole/crovio/internal/domain"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	hasUpper        = regexp.MustCompile(`[A-Z]`)
	hasLower        = regexp.MustCompile(`[a-z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
	hasSymbol       = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// bcrypt ignores input past 72 bytes, so longer passwords are rejected rather
// than silently truncated.
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Username    *string `json:"username"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
	AcceptTerms bool    `json:"accept_terms"`
}

// Validate enforces the registration rules.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(minPasswordLen, maxPasswordLen),
			validation.Match(hasUpper).Error("must contain an uppercase letter"),
			validation.Match(hasLower).Error("must contain a lowercase letter"),
			validation.Match(hasDigit).Error("must contain a number"),
			validation.Match(hasSymbol).Error("must contain a special character"),
		),
		validation.Field(&r.FirstName, validation.Length(1, 50)),
		validation.Field(&r.LastName, validation.Length(1, 50)),
		validation.Field(&r.Username, validation.Length(3, 30), validation.Match(usernamePattern)),
		validation.Field(&r.Phone, validation.Match(phonePattern).Error("must be a phone number in international format")),
		validation.Field(&r.Location, validation.Length(0, 100)),
		validation.Field(&r.AcceptTerms, validation.Required.Error("terms and conditions must be accepted")),
	)
}

// RegisterResponse is returned after registration.
type RegisterResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRegisterResponse projects a user.
func NewRegisterResponse(u *domain.User) RegisterResponse {
	return RegisterResponse{ID: u.ID, Email: u.Email, Username: u.Username, CreatedAt: u.CreatedAt}
}

// LoginRequest payload. Exactly one of Email and Phone must be set; that
// rule is enforced by the auth core so it reports AmbiguousIdentifier.
type LoginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Validate checks field shapes only.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Length(0, 255)),
		validation.Field(&r.Phone, validation.Length(0, 32)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordLen)),
	)
}

// LoginResponse carries a token pair.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	SubjectID    string `json:"subject_id"`
}

// NewLoginResponse projects a token pair.
func NewLoginResponse(p *domain.TokenPair) LoginResponse {
	return LoginResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		SubjectID:    p.Subject.String(),
	}
}

// RefreshRequest payload, also used by logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Normalize trims surrounding whitespace.
func (r *RefreshRequest) Normalize() {
	r.RefreshToken = strings.TrimSpace(r.RefreshToken)
}

// Present reports whether a token was supplied.
func (r RefreshRequest) Present() bool {
	return r.RefreshToken != ""
}

// RefreshResponse carries a new access token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MeResponse identifies the caller.
type MeResponse struct {
	UserID string `json:"user_id"`
}

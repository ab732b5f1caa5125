package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt. Salt is generated
// per call and embedded in the digest.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher builds a hasher; out-of-range costs fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt digest of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// MaxPasswordBytes is the longest input bcrypt reads; bytes past it are ignored.
const MaxPasswordBytes = 72

// Verify reports whether password matches digest. A mismatch is (false, nil);
// an error is returned only for a digest that is not a bcrypt hash. Passwords
// over MaxPasswordBytes never match, since bcrypt would compare only a prefix.
func (h *PasswordHasher) Verify(password, digest string) (bool, error) {
	if len(password) > MaxPasswordBytes {
		h.Burn(password[:MaxPasswordBytes])
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// Burn spends the same work as a real verification. Used when the identifier
// is unknown so response time does not reveal whether an account exists.
func (h *PasswordHasher) Burn(password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("crovio-unknown-account"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}

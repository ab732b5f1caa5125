package auth

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/samueladole/crovio/internal/domain"
)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone formats phone as E.164, reading numbers without a country
// code in region. Unparseable input is returned trimmed so lookups simply miss.
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	num, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return phone
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// NewIdentifier builds a normalized login identifier. Exactly one of email
// and phone must be non-blank.
func NewIdentifier(email, phone, region string) (domain.Identifier, error) {
	email = NormalizeEmail(email)
	phone = NormalizePhone(phone, region)
	if (email == "") == (phone == "") {
		return domain.Identifier{}, ErrAmbiguousIdentifier
	}
	return domain.Identifier{Email: email, Phone: phone}, nil
}

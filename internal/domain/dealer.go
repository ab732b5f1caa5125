package domain

// Dealer is the business profile attached to a dealer account.
type Dealer struct {
	UserID       string
	BusinessName string
	Description  *string
	LogoURL      *string
	Country      *string
	City         *string
	Address      *string
	IsVerified   bool
}

package domain

import "time"

// Product is a marketplace listing owned by the dealer that created it.
type Product struct {
	ID          string
	DealerID    string
	Name        string
	Description *string
	Price       float64
	Quantity    int
	Category    string
	ImageURL    *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ownership returns the guard projection of the product.
func (p *Product) Ownership() OwnedResource {
	return OwnedResource{ResourceID: p.ID, Owner: Subject(p.DealerID)}
}

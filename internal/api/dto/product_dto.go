package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/internal/service"
)

// CreateProductRequest payload.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"image_url"`
}

// Validate checks the listing fields.
func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Price, validation.Min(0.0), validation.Max(99999999.99)),
		validation.Field(&r.Quantity, validation.Min(0)),
		validation.Field(&r.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.ImageURL, validation.Length(0, 500), is.URL),
	)
}

// Input maps the request to the service input.
func (r CreateProductRequest) Input() service.ProductCreateInput {
	return service.ProductCreateInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
	}
}

// UpdateProductRequest is a partial update.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url"`
	IsActive    *bool    `json:"is_active"`
}

// Validate checks the supplied fields.
func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Price, validation.Min(0.0), validation.Max(99999999.99)),
		validation.Field(&r.Quantity, validation.Min(0)),
		validation.Field(&r.Category, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.ImageURL, validation.Length(0, 500), is.URL),
	)
}

// Input maps the request to the service input.
func (r UpdateProductRequest) Input() service.ProductUpdateInput {
	return service.ProductUpdateInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		IsActive:    r.IsActive,
	}
}

// ProductListQuery captures list filters.
type ProductListQuery struct {
	Pagination
	Category string `query:"category"`
	Search   string `query:"q"`
	DealerID string `query:"dealer_id"`
}

// ProductResponse response.
type ProductResponse struct {
	ID          string    `json:"id"`
	DealerID    string    `json:"dealer_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductResponse projects a product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		DealerID:    p.DealerID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

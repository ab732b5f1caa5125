package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/internal/repository"
	"github.com/samueladole/crovio/pkg/util/errorutil"
)

// ProductService coordinates marketplace listings.
type ProductService struct {
	products repository.ProductRepository
}

// ProductCreateInput describes a new listing.
type ProductCreateInput struct {
	Name        string
	Description *string
	Price       float64
	Quantity    int
	Category    string
	ImageURL    *string
}

// ProductUpdateInput is a partial update; nil fields are left unchanged.
type ProductUpdateInput struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int
	Category    *string
	ImageURL    *string
	IsActive    *bool
}

// ProductListFilter describes listing filters.
type ProductListFilter struct {
	DealerID *string
	Category *string
	Search   *string
	Limit    int
	Offset   int
}

// NewProductService constructs the service.
func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List returns active products.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]domain.Product, error) {
	return s.products.List(ctx, repository.ProductFilter{
		DealerID:   filter.DealerID,
		Category:   filter.Category,
		SearchTerm: filter.Search,
		ActiveOnly: true,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Get fetches a product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errorutil.NewNotFound("product", nil)
	}
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.NewNotFound("product", map[string]any{"id": id})
	}
	return product, err
}

// Create lists a product owned by the caller.
func (s *ProductService) Create(ctx context.Context, owner domain.Subject, input ProductCreateInput) (*domain.Product, error) {
	product := &domain.Product{
		DealerID:    owner.String(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Category:    strings.TrimSpace(input.Category),
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies input to a product the caller owns.
func (s *ProductService) Update(ctx context.Context, caller domain.Subject, id string, input ProductUpdateInput) (*domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeMutation(caller, product.Ownership()); err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product the caller owns.
func (s *ProductService) Delete(ctx context.Context, caller domain.Subject, id string) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeMutation(caller, product.Ownership()); err != nil {
		return err
	}
	err = s.products.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewNotFound("product", map[string]any{"id": id})
	}
	return err
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/pkg/util/errorutil"
)

const (
	ownerS1   = domain.Subject("11111111-1111-4111-8111-111111111111")
	strangerS = domain.Subject("22222222-2222-4222-8222-222222222222")
	productID = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"
)

func ownedProduct() *domain.Product {
	return &domain.Product{ID: productID, DealerID: ownerS1.String(), Name: "Maize seed", Price: 12.5, Category: "seeds", IsActive: true}
}

func TestProductService_UpdateByOwner(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, productID).Return(ownedProduct(), nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	svc := NewProductService(repo)

	price := 15.0
	updated, err := svc.Update(context.Background(), ownerS1, productID, ProductUpdateInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.Price)
	assert.Equal(t, "Maize seed", updated.Name)
	repo.AssertExpectations(t)
}

func TestProductService_UpdateByStrangerIsForbidden(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, productID).Return(ownedProduct(), nil)
	svc := NewProductService(repo)

	name := "hijacked"
	_, err := svc.Update(context.Background(), strangerS, productID, ProductUpdateInput{Name: &name})
	assert.ErrorIs(t, err, auth.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, errorutil.ToDomainError(err).HTTPStatus)

	err = svc.Delete(context.Background(), strangerS, productID)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProductService_DeleteByOwner(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, productID).Return(ownedProduct(), nil)
	repo.On("Delete", mock.Anything, productID).Return(nil)
	svc := NewProductService(repo)

	require.NoError(t, svc.Delete(context.Background(), ownerS1, productID))
	repo.AssertExpectations(t)
}

func TestProductService_GetNotFound(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, productID).Return(nil, fmt.Errorf("get: %w", pgx.ErrNoRows))
	svc := NewProductService(repo)

	_, err := svc.Get(context.Background(), productID)
	assert.Equal(t, http.StatusNotFound, errorutil.ToDomainError(err).HTTPStatus)

	_, err = svc.Get(context.Background(), "not-a-uuid")
	assert.Equal(t, http.StatusNotFound, errorutil.ToDomainError(err).HTTPStatus)
	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestProductService_CreateOwnedByCaller(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.DealerID == ownerS1.String() && p.IsActive && p.Name == "Fertilizer"
	})).Return(nil)
	svc := NewProductService(repo)

	product, err := svc.Create(context.Background(), ownerS1, ProductCreateInput{Name: " Fertilizer ", Price: 30, Category: "inputs"})
	require.NoError(t, err)
	assert.Equal(t, ownerS1, product.Ownership().Owner)
}

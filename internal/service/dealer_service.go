package service

import (
	"context"

	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/internal/repository"
)

// DealerService reads dealer profiles.
type DealerService struct {
	dealers repository.DealerRepository
}

// NewDealerService constructs the service.
func NewDealerService(dealers repository.DealerRepository) *DealerService {
	return &DealerService{dealers: dealers}
}

// List returns dealers ordered by business name.
func (s *DealerService) List(ctx context.Context, limit, offset int) ([]domain.Dealer, error) {
	return s.dealers.List(ctx, limit, offset)
}

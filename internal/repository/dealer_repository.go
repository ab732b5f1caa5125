package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samueladole/crovio/internal/domain"
)

// DealerRepository reads dealer business profiles.
type DealerRepository interface {
	List(ctx context.Context, limit, offset int) ([]domain.Dealer, error)
}

type dealerRepository struct {
	pool *pgxpool.Pool
}

// NewDealerRepository instantiates repository.
func NewDealerRepository(pool *pgxpool.Pool) DealerRepository {
	return &dealerRepository{pool: pool}
}

func (r *dealerRepository) List(ctx context.Context, limit, offset int) ([]domain.Dealer, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `
        SELECT user_id, business_name, description, logo_url, country, city, address, is_verified
        FROM dealers ORDER BY business_name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dealers []domain.Dealer
	for rows.Next() {
		var d domain.Dealer
		if err := rows.Scan(
			&d.UserID,
			&d.BusinessName,
			&d.Description,
			&d.LogoURL,
			&d.Country,
			&d.City,
			&d.Address,
			&d.IsVerified,
		); err != nil {
			return nil, err
		}
		dealers = append(dealers, d)
	}
	return dealers, rows.Err()
}

package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pavelkudinov/crm-api/internal/domain/validate"
)

// CreateRequest holds the input for creating one product. Stock defaults to
// zero and description to empty.
type CreateRequest struct {
	Name        string
	Price       decimal.Decimal
	Stock       int
	Description string
}

// Service implements the product creation workflow.
type Service struct {
	products Repository
	now      func() time.Time
}

// NewService creates a product Service backed by the given repository.
func NewService(products Repository) *Service {
	return &Service{products: products, now: time.Now}
}

// Create validates price and stock, then persists the product. The stored
// price and stock equal the inputs exactly.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Product, error) {
	var errs validate.Errors
	if fe := validate.Price(req.Price); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := validate.Stock(req.Stock); fe != nil {
		errs = append(errs, *fe)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	now := s.now().UTC()
	p := &Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return p, nil
}

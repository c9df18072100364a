package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
	"github.com/pavelkudinov/crm-api/internal/domain/product"
	"github.com/pavelkudinov/crm-api/internal/domain/validate"
)

// CreateRequest holds the input for creating an order. Every product gets one
// line with quantity 1; OrderDate defaults to the current time.
type CreateRequest struct {
	CustomerID string
	ProductIDs []string
	OrderDate  *time.Time
}

// ComputeTotal sums PriceAtTime times Quantity over the given lines. Line
// order is irrelevant. It is called exactly once per order-creation workflow
// and the result is persisted atomically with the lines.
func ComputeTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.PriceAtTime.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Service implements the order creation workflow: customer and product
// existence checks, line construction with frozen prices, total computation,
// and an atomic write of the whole aggregate.
type Service struct {
	orders    Repository
	products  product.Repository
	customers customer.Repository
	now       func() time.Time
}

// NewService creates an order Service with the required collaborators.
func NewService(orders Repository, products product.Repository, customers customer.Repository) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		customers: customers,
		now:       time.Now,
	}
}

// Create runs the full workflow. Validation and existence failures come back
// as validate.Errors with zero writes; all missing products are reported, not
// just the first. On success the order, its lines, and the computed total are
// persisted in one atomic unit.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if _, err := s.customers.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return nil, validate.Errors{{
				Field:   "customer_id",
				Kind:    validate.KindNotFound,
				Message: "Customer not found",
			}}
		}
		return nil, errors.Wrap(err, "get customer")
	}

	if len(req.ProductIDs) == 0 {
		return nil, validate.Errors{{
			Field:   "product_ids",
			Kind:    validate.KindRequired,
			Message: "At least one product is required",
		}}
	}

	fetched, err := s.products.GetByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	// Collect every missing ID before aborting so the caller sees the full
	// picture in one round trip. Repeated IDs collapse to one line.
	var errs validate.Errors
	seen := make(map[string]struct{}, len(req.ProductIDs))
	products := make([]product.Product, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		p, ok := byID[id]
		if !ok {
			errs = append(errs, validate.FieldError{
				Field:   "product_ids",
				Kind:    validate.KindNotFound,
				Message: fmt.Sprintf("Product with ID %s not found", id),
			})
			continue
		}
		products = append(products, p)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	now := s.now().UTC()
	orderDate := now
	if req.OrderDate != nil {
		orderDate = req.OrderDate.UTC()
	}

	o := &Order{
		ID:         uuid.New().String(),
		CustomerID: req.CustomerID,
		OrderDate:  orderDate,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, p := range products {
		o.Lines = append(o.Lines, Line{
			OrderID:     o.ID,
			ProductID:   p.ID,
			Quantity:    1,
			PriceAtTime: p.Price,
		})
	}
	o.TotalAmount = ComputeTotal(o.Lines)

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

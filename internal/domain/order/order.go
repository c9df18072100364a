package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status is the order lifecycle state. New orders start as StatusPending;
// transitions are out of scope for this API.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Line is one product's entry in an order. PriceAtTime is captured when the
// line is created and never changes afterwards, so totals stay accurate when
// catalog prices move. An order holds at most one line per product.
type Line struct {
	OrderID     string
	ProductID   string
	Quantity    int
	PriceAtTime decimal.Decimal
}

// Order is a customer's order together with its lines. TotalAmount always
// equals the sum over lines of PriceAtTime times Quantity.
type Order struct {
	ID          string
	CustomerID  string
	TotalAmount decimal.Decimal
	OrderDate   time.Time
	Status      Status
	Lines       []Line
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows order listings. Join-based predicates (customer name,
// product name, product membership) deduplicate matched orders.
type Filter struct {
	TotalAmountGte *decimal.Decimal
	TotalAmountLte *decimal.Decimal
	OrderDateGte   *time.Time
	OrderDateLte   *time.Time
	CustomerName   string
	ProductName    string
	ProductID      string
}

// Repository defines persistence operations for orders.
//
// Create persists the order and all of its lines atomically: on any failure
// nothing is written.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f Filter) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
}

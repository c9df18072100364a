package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item. Price is always strictly positive and stock
// non-negative; both are enforced at write time.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Stock       int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStockThreshold is the stock level below which a product counts as
// low-stock in listings.
const LowStockThreshold = 10

// Filter narrows product listings. Nil pointers mean "no constraint".
type Filter struct {
	NameContains string
	PriceGte     *decimal.Decimal
	PriceLte     *decimal.Decimal
	StockGte     *int
	StockLte     *int
	StockExact   *int
	LowStock     bool
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	List(ctx context.Context, f Filter) ([]Product, error)
}

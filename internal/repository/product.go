package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/pavelkudinov/crm-api/internal/domain/product"
)

const (
	insertProductSQL = `INSERT INTO products (id, name, price, stock, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getProductByIDSQL = `SELECT id, name, price, stock, description, created_at, updated_at
		FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT id, name, price, stock, description, created_at, updated_at
		FROM products WHERE id = ANY($1)`

	listProductsSQL = `SELECT id, name, price, stock, description, created_at, updated_at
		FROM products`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	db DB
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product row.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.db.Exec(ctx, insertProductSQL,
		p.ID, p.Name, p.Price, p.Stock, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting product %q: %w", p.Name, err)
	}
	return nil
}

// GetByID returns a single product, or product.ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.db.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs. Missing IDs are
// simply absent from the result; callers decide whether that is an error.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.db.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// List returns products matching the filter, ordered by name.
func (r *ProductRepository) List(ctx context.Context, f product.Filter) ([]product.Product, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.NameContains != "" {
		conds = append(conds, "name ILIKE "+arg("%"+f.NameContains+"%"))
	}
	if f.PriceGte != nil {
		conds = append(conds, "price >= "+arg(*f.PriceGte))
	}
	if f.PriceLte != nil {
		conds = append(conds, "price <= "+arg(*f.PriceLte))
	}
	if f.StockGte != nil {
		conds = append(conds, "stock >= "+arg(*f.StockGte))
	}
	if f.StockLte != nil {
		conds = append(conds, "stock <= "+arg(*f.StockLte))
	}
	if f.StockExact != nil {
		conds = append(conds, "stock = "+arg(*f.StockExact))
	}
	if f.LowStock {
		conds = append(conds, "stock < "+arg(product.LowStockThreshold))
	}

	rows, err := r.db.Query(ctx, listProductsSQL+whereClause(conds)+" ORDER BY name", args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

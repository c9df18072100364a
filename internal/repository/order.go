package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/pavelkudinov/crm-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (id, customer_id, total_amount, order_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertOrderLineSQL = `INSERT INTO order_lines (order_id, product_id, quantity, price_at_time)
		VALUES ($1, $2, $3, $4)`

	getOrderSQL = `SELECT id, customer_id, total_amount, order_date, status, created_at, updated_at
		FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT DISTINCT o.id, o.customer_id, o.total_amount, o.order_date, o.status, o.created_at, o.updated_at
		FROM orders o`

	listOrdersByCustomerSQL = `SELECT id, customer_id, total_amount, order_date, status, created_at, updated_at
		FROM orders WHERE customer_id = $1 ORDER BY order_date DESC`

	getLinesSQL = `SELECT order_id, product_id, quantity, price_at_time
		FROM order_lines WHERE order_id = ANY($1) ORDER BY product_id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	db DB
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and all of its lines in one transaction. Any
// failure rolls the whole aggregate back: no order without lines, no stale
// total.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.CustomerID, o.TotalAmount, o.OrderDate, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting order %q: %w", o.ID, err)
	}

	for _, l := range o.Lines {
		_, err = tx.Exec(ctx, insertOrderLineSQL, l.OrderID, l.ProductID, l.Quantity, l.PriceAtTime)
		if err != nil {
			return fmt.Errorf("inserting order line %q/%q: %w", l.OrderID, l.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns a single order with its lines, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.db.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	orders := []order.Order{o}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// List returns orders matching the filter, newest first, with lines attached.
// Predicates on customer or product attributes join through the related
// tables; DISTINCT in the select deduplicates multi-line matches.
func (r *OrderRepository) List(ctx context.Context, f order.Filter) ([]order.Order, error) {
	var (
		joins []string
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.TotalAmountGte != nil {
		conds = append(conds, "o.total_amount >= "+arg(*f.TotalAmountGte))
	}
	if f.TotalAmountLte != nil {
		conds = append(conds, "o.total_amount <= "+arg(*f.TotalAmountLte))
	}
	if f.OrderDateGte != nil {
		conds = append(conds, "o.order_date >= "+arg(*f.OrderDateGte))
	}
	if f.OrderDateLte != nil {
		conds = append(conds, "o.order_date <= "+arg(*f.OrderDateLte))
	}
	if f.CustomerName != "" {
		joins = append(joins, " JOIN customers c ON c.id = o.customer_id")
		conds = append(conds, "c.name ILIKE "+arg("%"+f.CustomerName+"%"))
	}
	if f.ProductName != "" || f.ProductID != "" {
		joins = append(joins, " JOIN order_lines ol ON ol.order_id = o.id JOIN products p ON p.id = ol.product_id")
		if f.ProductName != "" {
			conds = append(conds, "p.name ILIKE "+arg("%"+f.ProductName+"%"))
		}
		if f.ProductID != "" {
			conds = append(conds, "p.id = "+arg(f.ProductID))
		}
	}

	query := listOrdersSQL
	for _, j := range joins {
		query += j
	}
	query += whereClause(conds) + " ORDER BY o.order_date DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByCustomer returns a customer's orders, newest first, with lines.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, listOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %q: %w", customerID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachLines loads the lines for all given orders in a single query.
func (r *OrderRepository) attachLines(ctx context.Context, orders []order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	idx := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		idx[o.ID] = i
	}

	rows, err := r.db.Query(ctx, getLinesSQL, ids)
	if err != nil {
		return fmt.Errorf("getting order lines: %w", err)
	}
	lines, err := pgx.CollectRows(rows, scanLine)
	if err != nil {
		return err
	}

	for _, l := range lines {
		i := idx[l.OrderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &o.OrderDate, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func scanLine(row pgx.CollectableRow) (order.Line, error) {
	var l order.Line
	err := row.Scan(&l.OrderID, &l.ProductID, &l.Quantity, &l.PriceAtTime)
	return l, err
}

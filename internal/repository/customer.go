package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
)

const (
	insertCustomerSQL = `INSERT INTO customers (id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	customerExistsSQL = `SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1)`

	getCustomerSQL = `SELECT id, name, email, phone, created_at, updated_at
		FROM customers WHERE id = $1`

	listCustomersSQL = `SELECT id, name, email, phone, created_at, updated_at
		FROM customers`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	db DB
	// inTx marks a repository bound to a transaction by InTx. Creates then run
	// inside savepoints so one failed insert does not poison the batch.
	inTx bool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a customer row. A unique violation on email is reported as
// customer.ErrEmailExists. Inside a transaction the insert runs in a
// savepoint, leaving the enclosing transaction usable after a conflict.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	if !r.inTx {
		return r.insert(ctx, r.db, c)
	}

	sp, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}
	if err := r.insert(ctx, sp, c); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}

func (r *CustomerRepository) insert(ctx context.Context, db DB, c *customer.Customer) error {
	_, err := db.Exec(ctx, insertCustomerSQL,
		c.ID, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrEmailExists
		}
		return fmt.Errorf("inserting customer %q: %w", c.Email, err)
	}
	return nil
}

// ExistsByEmail reports whether a customer with the given email exists.
func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, customerExistsSQL, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking email %q: %w", email, err)
	}
	return exists, nil
}

// GetByID returns a single customer, or customer.ErrNotFound.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	rows, err := r.db.Query(ctx, getCustomerSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting customer %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %q: %w", id, err)
	}
	return &c, nil
}

// List returns customers matching the filter, ordered by name.
func (r *CustomerRepository) List(ctx context.Context, f customer.Filter) ([]customer.Customer, error) {
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
	if f.EmailContains != "" {
		conds = append(conds, "email ILIKE "+arg("%"+f.EmailContains+"%"))
	}
	if f.CreatedAtGte != nil {
		conds = append(conds, "created_at >= "+arg(*f.CreatedAtGte))
	}
	if f.CreatedAtLte != nil {
		conds = append(conds, "created_at <= "+arg(*f.CreatedAtLte))
	}
	if f.PhonePrefix != "" {
		conds = append(conds, "phone LIKE "+arg(f.PhonePrefix+"%"))
	}

	rows, err := r.db.Query(ctx, listCustomersSQL+whereClause(conds)+" ORDER BY name", args...)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return pgx.CollectRows(rows, scanCustomer)
}

// InTx runs fn against a transaction-bound repository. The transaction
// commits when fn returns nil and rolls back otherwise.
func (r *CustomerRepository) InTx(ctx context.Context, fn func(customer.Repository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&CustomerRepository{db: tx, inTx: true}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

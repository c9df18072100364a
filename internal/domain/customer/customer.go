package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors surfaced by Repository implementations.
var (
	// ErrNotFound is returned when a requested customer does not exist.
	ErrNotFound = errors.New("customer not found")
	// ErrEmailExists is returned when an insert hits the unique email
	// constraint. It backstops the application-level existence check under
	// concurrent creates.
	ErrEmailExists = errors.New("email already exists")
)

// Customer is a CRM contact. Email is globally unique; phone is optional.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows customer listings. Zero values mean "no constraint".
type Filter struct {
	NameContains  string
	EmailContains string
	CreatedAtGte  *time.Time
	CreatedAtLte  *time.Time
	PhonePrefix   string
}

// Repository defines persistence operations for customers.
//
// Create returns ErrEmailExists on a duplicate email. InTx runs fn against a
// transaction-bound Repository; inside it, each Create is isolated so a
// failing row does not poison the rest of the batch.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, f Filter) ([]Customer, error)
	InTx(ctx context.Context, fn func(Repository) error) error
}

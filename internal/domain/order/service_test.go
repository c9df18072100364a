package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
	"github.com/pavelkudinov/crm-api/internal/domain/product"
	"github.com/pavelkudinov/crm-api/internal/domain/validate"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	lastOrder *Order
	err       error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	m.lastOrder = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, _ string) (*Order, error) {
	return nil, ErrNotFound
}

func (m *mockOrderRepo) List(_ context.Context, _ Filter) ([]Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) ListByCustomer(_ context.Context, _ string) ([]Order, error) {
	return nil, nil
}

type mockProductRepo struct {
	byID map[string]product.Product
}

func (m *mockProductRepo) Create(_ context.Context, _ *product.Product) error { return nil }

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) List(_ context.Context, _ product.Filter) ([]product.Product, error) {
	return nil, nil
}

type mockCustomerRepo struct {
	byID map[string]customer.Customer
}

func (m *mockCustomerRepo) Create(_ context.Context, _ *customer.Customer) error { return nil }

func (m *mockCustomerRepo) ExistsByEmail(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id string) (*customer.Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &c, nil
}

func (m *mockCustomerRepo) List(_ context.Context, _ customer.Filter) ([]customer.Customer, error) {
	return nil, nil
}

func (m *mockCustomerRepo) InTx(_ context.Context, fn func(customer.Repository) error) error {
	return fn(m)
}

// --- Helpers ---

func newTestService(products []product.Product, customers []customer.Customer, orders *mockOrderRepo) *Service {
	pr := &mockProductRepo{byID: make(map[string]product.Product)}
	for _, p := range products {
		pr.byID[p.ID] = p
	}
	cr := &mockCustomerRepo{byID: make(map[string]customer.Customer)}
	for _, c := range customers {
		cr.byID[c.ID] = c
	}
	return NewService(orders, pr, cr)
}

func testProduct(id, price string) product.Product {
	return product.Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price), Stock: 5}
}

var alice = customer.Customer{ID: "c1", Name: "Alice", Email: "alice@example.com"}

// --- Tests ---

func TestComputeTotal(t *testing.T) {
	lines := []Line{
		{ProductID: "p1", Quantity: 1, PriceAtTime: decimal.RequireFromString("10.00")},
		{ProductID: "p2", Quantity: 3, PriceAtTime: decimal.RequireFromString("2.50")},
	}
	assert.True(t, decimal.RequireFromString("17.50").Equal(ComputeTotal(lines)))
	assert.True(t, decimal.Zero.Equal(ComputeTotal(nil)))
}

func TestCreate_TotalInvariant(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService(
		[]product.Product{testProduct("p1", "10.00"), testProduct("p2", "5.00")},
		[]customer.Customer{alice},
		repo,
	)

	o, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: "c1",
		ProductIDs: []string{"p1", "p2"},
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("15.00").Equal(o.TotalAmount))
	require.Len(t, o.Lines, 2)
	for _, l := range o.Lines {
		assert.Equal(t, 1, l.Quantity)
		assert.Equal(t, o.ID, l.OrderID)
	}
	// Total equals the sum of the persisted lines' frozen prices.
	assert.True(t, o.TotalAmount.Equal(ComputeTotal(repo.lastOrder.Lines)))
	assert.Equal(t, StatusPending, o.Status)
}

func TestCreate_PriceAtTimeFrozen(t *testing.T) {
	p1 := testProduct("p1", "10.00")
	repo := &mockOrderRepo{}
	svc := newTestService([]product.Product{p1}, []customer.Customer{alice}, repo)

	o, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: "c1",
		ProductIDs: []string{"p1"},
	})

	require.NoError(t, err)
	assert.True(t, p1.Price.Equal(o.Lines[0].PriceAtTime))
}

func TestCreate_CustomerNotFound(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService([]product.Product{testProduct("p1", "10.00")}, nil, repo)

	_, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: "missing",
		ProductIDs: []string{"p1"},
	})

	var errs validate.Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "customer_id", errs[0].Field)
	assert.Equal(t, validate.KindNotFound, errs[0].Kind)
	assert.Nil(t, repo.lastOrder, "no write")
}

func TestCreate_EmptyProductIDs(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService(nil, []customer.Customer{alice}, repo)

	_, err := svc.Create(context.Background(), CreateRequest{CustomerID: "c1"})

	var errs validate.Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "product_ids", errs[0].Field)
	assert.Equal(t, validate.KindRequired, errs[0].Kind)
	assert.Nil(t, repo.lastOrder)
}

func TestCreate_MissingProductsAllReported(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService([]product.Product{testProduct("p1", "10.00")}, []customer.Customer{alice}, repo)

	_, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: "c1",
		ProductIDs: []string{"p1", "missing", "also-missing"},
	})

	var errs validate.Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2, "one error per missing id")
	assert.Contains(t, errs[0].Message, "missing")
	assert.Contains(t, errs[1].Message, "also-missing")
	for _, fe := range errs {
		assert.Equal(t, validate.KindNotFound, fe.Kind)
	}
	assert.Nil(t, repo.lastOrder, "zero partial writes")
}

func TestCreate_RepeatedProductIDsCollapse(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService([]product.Product{testProduct("p1", "10.00")}, []customer.Customer{alice}, repo)

	o, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: "c1",
		ProductIDs: []string{"p1", "p1", "p1"},
	})

	require.NoError(t, err)
	require.Len(t, o.Lines, 1)
	assert.True(t, decimal.RequireFromString("10.00").Equal(o.TotalAmount))
}

func TestCreate_OrderDateDefaultsToNow(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService([]product.Product{testProduct("p1", "1.00")}, []customer.Customer{alice}, repo)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	o, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: "c1",
		ProductIDs: []string{"p1"},
	})

	require.NoError(t, err)
	assert.Equal(t, fixed, o.OrderDate)
}

func TestCreate_ExplicitOrderDate(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService([]product.Product{testProduct("p1", "1.00")}, []customer.Customer{alice}, repo)
	when := time.Date(2023, 12, 24, 18, 30, 0, 0, time.UTC)

	o, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: "c1",
		ProductIDs: []string{"p1"},
		OrderDate:  &when,
	})

	require.NoError(t, err)
	assert.Equal(t, when, o.OrderDate)
}

func TestCreate_StoreFailure(t *testing.T) {
	repo := &mockOrderRepo{err: errors.New("db write failed")}
	svc := newTestService([]product.Product{testProduct("p1", "1.00")}, []customer.Customer{alice}, repo)

	_, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: "c1",
		ProductIDs: []string{"p1"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

package repository

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelkudinov/crm-api/internal/domain/order"
)

func newOrder() *order.Order {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	o := &order.Order{
		ID:          "aaaaaaaa-0000-0000-0000-000000000000",
		CustomerID:  "cccccccc-0000-0000-0000-000000000000",
		TotalAmount: decimal.RequireFromString("15.00"),
		OrderDate:   now,
		Status:      order.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	o.Lines = []order.Line{
		{OrderID: o.ID, ProductID: "p1", Quantity: 1, PriceAtTime: decimal.RequireFromString("10.00")},
		{OrderID: o.ID, ProductID: "p2", Quantity: 1, PriceAtTime: decimal.RequireFromString("5.00")},
	}
	return o
}

func TestOrderCreate_AtomicCommit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	o := newOrder()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.CustomerID, o.TotalAmount, o.OrderDate, o.Status, o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_lines").
		WithArgs(o.ID, "p1", 1, o.Lines[0].PriceAtTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_lines").
		WithArgs(o.ID, "p2", 1, o.Lines[1].PriceAtTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback() // deferred rollback after commit is a no-op

	repo := NewOrderRepository(mock)
	require.NoError(t, repo.Create(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreate_RollsBackOnLineFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	o := newOrder()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.CustomerID, o.TotalAmount, o.OrderDate, o.Status, o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_lines").
		WithArgs(o.ID, "p1", 1, o.Lines[0].PriceAtTime).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := NewOrderRepository(mock)
	err = repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting order line")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderGetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, customer_id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "customer_id", "total_amount", "order_date", "status", "created_at", "updated_at",
		}))

	repo := NewOrderRepository(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, order.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderGetByID_AttachesLines(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	o := newOrder()
	mock.ExpectQuery("SELECT id, customer_id").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "customer_id", "total_amount", "order_date", "status", "created_at", "updated_at",
		}).AddRow(o.ID, o.CustomerID, o.TotalAmount, o.OrderDate, o.Status, o.CreatedAt, o.UpdatedAt))
	mock.ExpectQuery("SELECT order_id, product_id").
		WithArgs([]string{o.ID}).
		WillReturnRows(pgxmock.NewRows([]string{"order_id", "product_id", "quantity", "price_at_time"}).
			AddRow(o.ID, "p1", 1, o.Lines[0].PriceAtTime).
			AddRow(o.ID, "p2", 1, o.Lines[1].PriceAtTime))

	repo := NewOrderRepository(mock)
	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.TotalAmount.Equal(order.ComputeTotal(got.Lines)))
	require.NoError(t, mock.ExpectationsWereMet())
}

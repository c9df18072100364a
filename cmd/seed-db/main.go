// Command seed-db populates the database with sample CRM data: customers,
// products, and a handful of orders with frozen line prices and computed
// totals. Existing data is cleared first.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
	"github.com/pavelkudinov/crm-api/internal/domain/order"
	"github.com/pavelkudinov/crm-api/internal/domain/product"
	"github.com/pavelkudinov/crm-api/internal/repository"
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := clearData(ctx, pool); err != nil {
		return errors.Wrap(err, "clear data")
	}

	customerRepo := repository.NewCustomerRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	customers, err := seedCustomers(ctx, customer.NewService(customerRepo))
	if err != nil {
		return errors.Wrap(err, "seed customers")
	}

	products, err := seedProducts(ctx, product.NewService(productRepo))
	if err != nil {
		return errors.Wrap(err, "seed products")
	}

	orderSvc := order.NewService(orderRepo, productRepo, customerRepo)
	if err := seedOrders(ctx, orderSvc, customers, products); err != nil {
		return errors.Wrap(err, "seed orders")
	}

	return nil
}

func clearData(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("clearing existing data")

	_, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, products, customers`)
	return err
}

func seedCustomers(ctx context.Context, svc *customer.Service) ([]customer.Customer, error) {
	reqs := []customer.CreateRequest{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Bob Smith", Email: "bob@example.com", Phone: "123-456-7890"},
		{Name: "Carol Davis", Email: "carol@example.com", Phone: "(555) 123-4567"},
		{Name: "David Wilson", Email: "david@example.com"},
		{Name: "Eva Brown", Email: "eva@example.com", Phone: "+44 20 7946 0958"},
	}

	customers := make([]customer.Customer, 0, len(reqs))
	for _, req := range reqs {
		c, err := svc.Create(ctx, req)
		if err != nil {
			return nil, errors.Wrapf(err, "create customer %s", req.Email)
		}
		customers = append(customers, *c)
		slog.Info("created customer", slog.String("name", c.Name))
	}
	return customers, nil
}

func seedProducts(ctx context.Context, svc *product.Service) ([]product.Product, error) {
	reqs := []product.CreateRequest{
		{Name: `Laptop Pro 15"`, Price: decimal.RequireFromString("1299.99"), Stock: 25, Description: "High-performance laptop with 16GB RAM and 512GB SSD"},
		{Name: "Wireless Mouse", Price: decimal.RequireFromString("29.99"), Stock: 100, Description: "Ergonomic wireless mouse with 3-year battery life"},
		{Name: "Mechanical Keyboard", Price: decimal.RequireFromString("89.99"), Stock: 50, Description: "Cherry MX Blue switches, RGB backlit"},
		{Name: `External Monitor 24"`, Price: decimal.RequireFromString("199.99"), Stock: 30, Description: "4K UHD monitor with USB-C connectivity"},
		{Name: "USB-C Hub", Price: decimal.RequireFromString("49.99"), Stock: 75, Description: "7-in-1 USB-C hub with HDMI, USB 3.0, and SD card reader"},
		{Name: "Wireless Headphones", Price: decimal.RequireFromString("159.99"), Stock: 40, Description: "Noise-cancelling over-ear headphones with 30h battery"},
		{Name: "Smartphone Case", Price: decimal.RequireFromString("19.99"), Stock: 200, Description: "Protective case with built-in screen protector"},
		{Name: "Portable Charger", Price: decimal.RequireFromString("39.99"), Stock: 60, Description: "10000mAh power bank with fast charging"},
	}

	products := make([]product.Product, 0, len(reqs))
	for _, req := range reqs {
		p, err := svc.Create(ctx, req)
		if err != nil {
			return nil, errors.Wrapf(err, "create product %s", req.Name)
		}
		products = append(products, *p)
		slog.Info("created product", slog.String("name", p.Name), slog.String("price", p.Price.String()))
	}
	return products, nil
}

func seedOrders(ctx context.Context, svc *order.Service, customers []customer.Customer, products []product.Product) error {
	created := 0

	// Skip the last customer so the data has someone without orders.
	for _, c := range customers[:len(customers)-1] {
		numOrders := 1 + rand.Intn(3)

		for range numOrders {
			numProducts := 1 + rand.Intn(4)
			if numProducts > len(products) {
				numProducts = len(products)
			}

			perm := rand.Perm(len(products))
			ids := make([]string, 0, numProducts)
			for _, i := range perm[:numProducts] {
				ids = append(ids, products[i].ID)
			}

			orderDate := time.Now().AddDate(0, 0, -rand.Intn(30))
			o, err := svc.Create(ctx, order.CreateRequest{
				CustomerID: c.ID,
				ProductIDs: ids,
				OrderDate:  &orderDate,
			})
			if err != nil {
				return errors.Wrapf(err, "create order for %s", c.Name)
			}

			created++
			slog.Info("created order",
				slog.String("customer", c.Name),
				slog.Int("products", len(o.Lines)),
				slog.String("total", o.TotalAmount.String()),
			)
		}
	}

	slog.Info("created orders", slog.Int("count", created))
	return nil
}

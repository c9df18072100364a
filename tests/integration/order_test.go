//go:build integration

package integration

import (
	"testing"

	"github.com/shopspring/decimal"
)

const createOrderMutation = `
mutation ($input: OrderInput!) {
	createOrder(input: $input) {
		order {
			id
			customerId
			totalAmount
			status
			lines { productId quantity priceAtTime }
		}
		message
		errors { field message }
	}
}`

type createOrderPayload struct {
	Order   *orderResponse `json:"order"`
	Message string         `json:"message"`
	Errors  []fieldError   `json:"errors"`
}

// setupOrderFixtures creates a fresh customer and two products, returning
// their IDs and prices.
func setupOrderFixtures(t *testing.T) (customerID string, productIDs []string, prices []string) {
	t.Helper()

	var c struct {
		CreateCustomer createCustomerPayload `json:"createCustomer"`
	}
	doGraphQL(t, createCustomerMutation, map[string]any{
		"input": map[string]any{"name": "Order Tester", "email": uniqueEmail("orders")},
	}, &c)
	if c.CreateCustomer.Customer == nil {
		t.Fatalf("setup customer: %v", c.CreateCustomer.Errors)
	}

	prices = []string{"10.50", "4.25"}
	for i, price := range prices {
		var p struct {
			CreateProduct createProductPayload `json:"createProduct"`
		}
		doGraphQL(t, createProductMutation, map[string]any{
			"input": map[string]any{"name": "Order Fixture", "price": price, "stock": 10 + i},
		}, &p)
		if p.CreateProduct.Product == nil {
			t.Fatalf("setup product: %v", p.CreateProduct.Errors)
		}
		productIDs = append(productIDs, p.CreateProduct.Product.ID)
	}

	return c.CreateCustomer.Customer.ID, productIDs, prices
}

func TestCreateOrder(t *testing.T) {
	customerID, productIDs, prices := setupOrderFixtures(t)

	var out struct {
		CreateOrder createOrderPayload `json:"createOrder"`
	}
	doGraphQL(t, createOrderMutation, map[string]any{
		"input": map[string]any{"customerId": customerID, "productIds": productIDs},
	}, &out)

	payload := out.CreateOrder
	if payload.Message != "Order created successfully" {
		t.Fatalf("message: got %q, errors: %v", payload.Message, payload.Errors)
	}
	if payload.Order == nil {
		t.Fatal("order missing")
	}
	if payload.Order.Status != "pending" {
		t.Errorf("status: got %q, want pending", payload.Order.Status)
	}
	if len(payload.Order.Lines) != len(productIDs) {
		t.Fatalf("lines: got %d, want %d", len(payload.Order.Lines), len(productIDs))
	}

	// The total must equal the sum of frozen line prices, each with quantity 1.
	want := decimal.Zero
	for _, p := range prices {
		want = want.Add(decimal.RequireFromString(p))
	}
	got := decimal.RequireFromString(payload.Order.TotalAmount)
	if !got.Equal(want) {
		t.Errorf("total: got %s, want %s", got, want)
	}
	for _, l := range payload.Order.Lines {
		if l.Quantity != 1 {
			t.Errorf("line %s quantity: got %d, want 1", l.ProductID, l.Quantity)
		}
	}
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	_, productIDs, _ := setupOrderFixtures(t)

	var out struct {
		CreateOrder createOrderPayload `json:"createOrder"`
	}
	doGraphQL(t, createOrderMutation, map[string]any{
		"input": map[string]any{
			"customerId": "00000000-0000-0000-0000-000000000000",
			"productIds": productIDs,
		},
	}, &out)

	payload := out.CreateOrder
	if payload.Order != nil {
		t.Fatal("order should not be created")
	}
	if payload.Message != "Invalid customer" {
		t.Errorf("message: got %q", payload.Message)
	}
	if len(payload.Errors) != 1 || payload.Errors[0].Message != "Customer not found" {
		t.Fatalf("errors: got %v", payload.Errors)
	}
}

func TestCreateOrder_EmptyProducts(t *testing.T) {
	customerID, _, _ := setupOrderFixtures(t)

	var out struct {
		CreateOrder createOrderPayload `json:"createOrder"`
	}
	doGraphQL(t, createOrderMutation, map[string]any{
		"input": map[string]any{"customerId": customerID, "productIds": []any{}},
	}, &out)

	payload := out.CreateOrder
	if payload.Order != nil {
		t.Fatal("order should not be created")
	}
	if payload.Message != "No products selected" {
		t.Errorf("message: got %q", payload.Message)
	}
}

func TestCreateOrder_MissingProductsAllReported(t *testing.T) {
	customerID, productIDs, _ := setupOrderFixtures(t)

	var out struct {
		CreateOrder createOrderPayload `json:"createOrder"`
	}
	doGraphQL(t, createOrderMutation, map[string]any{
		"input": map[string]any{
			"customerId": customerID,
			"productIds": []any{
				productIDs[0],
				"00000000-0000-0000-0000-000000000001",
				"00000000-0000-0000-0000-000000000002",
			},
		},
	}, &out)

	payload := out.CreateOrder
	if payload.Order != nil {
		t.Fatal("order should not be created")
	}
	if payload.Message != "Invalid product IDs" {
		t.Errorf("message: got %q", payload.Message)
	}
	if len(payload.Errors) != 2 {
		t.Fatalf("errors: got %d, want one per missing product: %v", len(payload.Errors), payload.Errors)
	}
}

func TestCustomerOrders(t *testing.T) {
	customerID, productIDs, _ := setupOrderFixtures(t)

	var created struct {
		CreateOrder createOrderPayload `json:"createOrder"`
	}
	doGraphQL(t, createOrderMutation, map[string]any{
		"input": map[string]any{"customerId": customerID, "productIds": productIDs[:1]},
	}, &created)
	if created.CreateOrder.Order == nil {
		t.Fatalf("setup order: %v", created.CreateOrder.Errors)
	}

	var out struct {
		CustomerOrders []orderResponse `json:"customerOrders"`
	}
	doGraphQL(t, `
query ($cid: ID!) {
	customerOrders(customerId: $cid) { id customerId totalAmount }
}`, map[string]any{"cid": customerID}, &out)

	if len(out.CustomerOrders) != 1 {
		t.Fatalf("orders: got %d, want 1", len(out.CustomerOrders))
	}
	if out.CustomerOrders[0].ID != created.CreateOrder.Order.ID {
		t.Errorf("order ID mismatch: %q vs %q", out.CustomerOrders[0].ID, created.CreateOrder.Order.ID)
	}
}

func TestOrders_FilterByProduct(t *testing.T) {
	customerID, productIDs, _ := setupOrderFixtures(t)

	var created struct {
		CreateOrder createOrderPayload `json:"createOrder"`
	}
	doGraphQL(t, createOrderMutation, map[string]any{
		"input": map[string]any{"customerId": customerID, "productIds": productIDs},
	}, &created)
	if created.CreateOrder.Order == nil {
		t.Fatalf("setup order: %v", created.CreateOrder.Errors)
	}

	var out struct {
		Orders []orderResponse `json:"orders"`
	}
	doGraphQL(t, `
query ($f: OrderFilterInput) {
	orders(filter: $f) { id }
}`, map[string]any{"f": map[string]any{"productId": productIDs[0]}}, &out)

	found := false
	seen := make(map[string]bool)
	for _, o := range out.Orders {
		if seen[o.ID] {
			t.Fatalf("order %s appears twice in filtered listing", o.ID)
		}
		seen[o.ID] = true
		if o.ID == created.CreateOrder.Order.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("created order not in product-filtered listing")
	}
}

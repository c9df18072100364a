package graph

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
	"github.com/pavelkudinov/crm-api/internal/domain/order"
	"github.com/pavelkudinov/crm-api/internal/domain/product"
)

// Argument decoding. graphql-go hands input objects over as
// map[string]any with values already coerced by the scalar parsers.

func argMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func stringArg(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intArg(m map[string]any, key string) int {
	n, _ := m[key].(int)
	return n
}

func optIntArg(m map[string]any, key string) *int {
	if n, ok := m[key].(int); ok {
		return &n
	}
	return nil
}

func boolArg(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func optTimeArg(m map[string]any, key string) *time.Time {
	if t, ok := m[key].(time.Time); ok {
		return &t
	}
	return nil
}

func optDecimalArg(m map[string]any, key string) *decimal.Decimal {
	if d, ok := m[key].(decimal.Decimal); ok {
		return &d
	}
	return nil
}

func idListArg(m map[string]any, key string) []string {
	raw, _ := m[key].([]any)
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids
}

func customerCreateRequest(m map[string]any) customer.CreateRequest {
	return customer.CreateRequest{
		Name:  stringArg(m, "name"),
		Email: stringArg(m, "email"),
		Phone: stringArg(m, "phone"),
	}
}

func productCreateRequest(m map[string]any) product.CreateRequest {
	price, _ := m["price"].(decimal.Decimal)
	return product.CreateRequest{
		Name:        stringArg(m, "name"),
		Price:       price,
		Stock:       intArg(m, "stock"),
		Description: stringArg(m, "description"),
	}
}

func orderCreateRequest(m map[string]any) order.CreateRequest {
	return order.CreateRequest{
		CustomerID: stringArg(m, "customerId"),
		ProductIDs: idListArg(m, "productIds"),
		OrderDate:  optTimeArg(m, "orderDate"),
	}
}

func customerFilterArg(v any) customer.Filter {
	m := argMap(v)
	return customer.Filter{
		NameContains:  stringArg(m, "nameIcontains"),
		EmailContains: stringArg(m, "emailIcontains"),
		CreatedAtGte:  optTimeArg(m, "createdAtGte"),
		CreatedAtLte:  optTimeArg(m, "createdAtLte"),
		PhonePrefix:   stringArg(m, "phonePattern"),
	}
}

func productFilterArg(v any) product.Filter {
	m := argMap(v)
	return product.Filter{
		NameContains: stringArg(m, "nameIcontains"),
		PriceGte:     optDecimalArg(m, "priceGte"),
		PriceLte:     optDecimalArg(m, "priceLte"),
		StockGte:     optIntArg(m, "stockGte"),
		StockLte:     optIntArg(m, "stockLte"),
		StockExact:   optIntArg(m, "stock"),
		LowStock:     boolArg(m, "lowStock"),
	}
}

func orderFilterArg(v any) order.Filter {
	m := argMap(v)
	return order.Filter{
		TotalAmountGte: optDecimalArg(m, "totalAmountGte"),
		TotalAmountLte: optDecimalArg(m, "totalAmountLte"),
		OrderDateGte:   optTimeArg(m, "orderDateGte"),
		OrderDateLte:   optTimeArg(m, "orderDateLte"),
		CustomerName:   stringArg(m, "customerName"),
		ProductName:    stringArg(m, "productName"),
		ProductID:      stringArg(m, "productId"),
	}
}

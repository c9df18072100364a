package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
	"github.com/pavelkudinov/crm-api/internal/domain/order"
	"github.com/pavelkudinov/crm-api/internal/domain/product"
	"github.com/pavelkudinov/crm-api/internal/domain/validate"
)

// types holds the shared GraphQL object and input types. Built once per
// schema so the order and line types can close over the resolver for their
// relation fields.
type types struct {
	customer     *graphql.Object
	product      *graphql.Object
	order        *graphql.Object
	orderLine    *graphql.Object
	fieldError   *graphql.Object
	bulkRowError *graphql.Object

	customerInput  *graphql.InputObject
	productInput   *graphql.InputObject
	orderInput     *graphql.InputObject
	customerFilter *graphql.InputObject
	productFilter  *graphql.InputObject
	orderFilter    *graphql.InputObject
}

func newTypes(r *Resolver) *types {
	t := &types{}

	t.fieldError = graphql.NewObject(graphql.ObjectConfig{
		Name:        "FieldError",
		Description: "A validation or existence failure tied to one input field.",
		Fields: graphql.Fields{
			"field":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	t.bulkRowError = graphql.NewObject(graphql.ObjectConfig{
		Name:        "BulkRowError",
		Description: "Why one row of a bulk request was rejected.",
		Fields: graphql.Fields{
			"index":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"email":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"errors": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.fieldError))},
		},
	})

	t.customer = graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"phone":     &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	t.product = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"price":       &graphql.Field{Type: graphql.NewNonNull(decimalScalar)},
			"stock":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"description": &graphql.Field{Type: graphql.String},
			"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	t.orderLine = graphql.NewObject(graphql.ObjectConfig{
		Name:        "OrderLine",
		Description: "One product's entry in an order, with the price frozen at order time.",
		Fields: graphql.Fields{
			"productId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"quantity":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"priceAtTime": &graphql.Field{Type: graphql.NewNonNull(decimalScalar)},
			"product": &graphql.Field{
				Type: t.product,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					line, ok := p.Source.(order.Line)
					if !ok {
						return nil, nil
					}
					return r.Products.GetByID(p.Context, line.ProductID)
				},
			},
		},
	})

	t.order = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"customerId":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"totalAmount": &graphql.Field{Type: graphql.NewNonNull(decimalScalar)},
			"orderDate":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"status":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"lines":       &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.orderLine))},
			"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"customer": &graphql.Field{
				Type: t.customer,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					switch o := p.Source.(type) {
					case order.Order:
						return r.Customers.GetByID(p.Context, o.CustomerID)
					case *order.Order:
						return r.Customers.GetByID(p.Context, o.CustomerID)
					}
					return nil, nil
				},
			},
		},
	})

	t.customerInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CustomerInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"phone": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	t.productInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"price":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(decimalScalar)},
			"stock":       &graphql.InputObjectFieldConfig{Type: graphql.Int, DefaultValue: 0},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	t.orderInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"customerId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"productIds": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
			"orderDate":  &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
		},
	})

	t.customerFilter = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CustomerFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"nameIcontains":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"emailIcontains": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"createdAtGte":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"createdAtLte":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"phonePattern":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	t.productFilter = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"nameIcontains": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"priceGte":      &graphql.InputObjectFieldConfig{Type: decimalScalar},
			"priceLte":      &graphql.InputObjectFieldConfig{Type: decimalScalar},
			"stockGte":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"stockLte":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"stock":         &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"lowStock":      &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	t.orderFilter = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"totalAmountGte": &graphql.InputObjectFieldConfig{Type: decimalScalar},
			"totalAmountLte": &graphql.InputObjectFieldConfig{Type: decimalScalar},
			"orderDateGte":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"orderDateLte":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"customerName":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"productName":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"productId":      &graphql.InputObjectFieldConfig{Type: graphql.ID},
		},
	})

	return t
}

// Mutation payload shapes. graphql-go's default resolver matches the GraphQL
// field names against these struct fields case-insensitively.

type customerPayload struct {
	Customer *customer.Customer
	Message  string
	Errors   []validate.FieldError
}

type bulkCustomersPayload struct {
	Customers []customer.Customer
	Message   string
	Errors    []customer.RowError
}

type productPayload struct {
	Product *product.Product
	Message string
	Errors  []validate.FieldError
}

type orderPayload struct {
	Order   *order.Order
	Message string
	Errors  []validate.FieldError
}

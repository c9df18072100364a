package graph

import (
	"github.com/go-faster/errors"
	"github.com/graphql-go/graphql"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
	"github.com/pavelkudinov/crm-api/internal/domain/order"
	"github.com/pavelkudinov/crm-api/internal/domain/product"
)

// query builds the root Query type. Single-entity lookups resolve to null
// when the ID does not exist; only unexpected store failures surface as
// GraphQL errors.
func (t *types) query(r *Resolver) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "Hello, GraphQL!", nil
				},
			},
			"customers": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(t.customer)),
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: t.customerFilter},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Customers.List(p.Context, customerFilterArg(p.Args["filter"]))
				},
			},
			"customer": &graphql.Field{
				Type: t.customer,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					c, err := r.Customers.GetByID(p.Context, p.Args["id"].(string))
					if errors.Is(err, customer.ErrNotFound) {
						return nil, nil
					}
					return c, err
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(t.product)),
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: t.productFilter},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Products.List(p.Context, productFilterArg(p.Args["filter"]))
				},
			},
			"product": &graphql.Field{
				Type: t.product,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					prod, err := r.Products.GetByID(p.Context, p.Args["id"].(string))
					if errors.Is(err, product.ErrNotFound) {
						return nil, nil
					}
					return prod, err
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(t.order)),
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: t.orderFilter},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Orders.List(p.Context, orderFilterArg(p.Args["filter"]))
				},
			},
			"order": &graphql.Field{
				Type: t.order,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					o, err := r.Orders.GetByID(p.Context, p.Args["id"].(string))
					if errors.Is(err, order.ErrNotFound) {
						return nil, nil
					}
					return o, err
				},
			},
			"customerOrders": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(t.order)),
				Args: graphql.FieldConfigArgument{
					"customerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Orders.ListByCustomer(p.Context, p.Args["customerId"].(string))
				},
			},
		},
	})
}

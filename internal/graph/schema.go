// Package graph assembles the GraphQL schema over the CRM domain: object and
// input types, query resolvers, and mutation resolvers returning structured
// payloads.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
	"github.com/pavelkudinov/crm-api/internal/domain/order"
	"github.com/pavelkudinov/crm-api/internal/domain/product"
)

// Resolver carries the collaborators the schema resolves against. Queries go
// straight to the repositories; mutations go through the services.
type Resolver struct {
	Customers customer.Repository
	Products  product.Repository
	Orders    order.Repository

	CustomerSvc *customer.Service
	ProductSvc  *product.Service
	OrderSvc    *order.Service
}

// NewSchema builds the executable schema for the given resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	t := newTypes(r)
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    t.query(r),
		Mutation: t.mutation(r),
	})
}

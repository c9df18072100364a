package graph

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
	"github.com/pavelkudinov/crm-api/internal/domain/validate"
)

// mutation builds the root Mutation type. Every mutation resolves to a
// payload carrying the created entity (or null), a human-readable message,
// and per-field errors, so validation failures travel in data rather than in
// the GraphQL errors list.
func (t *types) mutation(r *Resolver) *graphql.Object {
	customerPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CustomerPayload",
		Fields: graphql.Fields{
			"customer": &graphql.Field{Type: t.customer},
			"message":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"errors":   &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.fieldError))},
		},
	})

	bulkCustomersPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BulkCustomersPayload",
		Fields: graphql.Fields{
			"customers": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.customer))},
			"message":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"errors":    &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.bulkRowError))},
		},
	})

	productPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductPayload",
		Fields: graphql.Fields{
			"product": &graphql.Field{Type: t.product},
			"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"errors":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.fieldError))},
		},
	})

	orderPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderPayload",
		Fields: graphql.Fields{
			"order":   &graphql.Field{Type: t.order},
			"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"errors":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(t.fieldError))},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{
				Type: customerPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.customerInput)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					req := customerCreateRequest(argMap(p.Args["input"]))
					c, err := r.CustomerSvc.Create(p.Context, req)
					if err != nil {
						return customerPayload{
							Message: customerFailMessage(err),
							Errors:  fieldErrors(p, err, "create customer"),
						}, nil
					}
					return customerPayload{
						Customer: c,
						Message:  "Customer created successfully",
						Errors:   []validate.FieldError{},
					}, nil
				},
			},
			"bulkCreateCustomers": &graphql.Field{
				Type: bulkCustomersPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.customerInput))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					raw, _ := p.Args["input"].([]any)
					reqs := make([]customer.CreateRequest, 0, len(raw))
					for _, v := range raw {
						reqs = append(reqs, customerCreateRequest(argMap(v)))
					}
					result, err := r.CustomerSvc.BulkCreate(p.Context, reqs)
					if err != nil {
						// The whole batch rolled back, so no row-level
						// errors: those are reserved for rejected rows.
						zctx.From(p.Context).Error("bulk create customers", zap.Error(err))
						return bulkCustomersPayload{
							Customers: []customer.Customer{},
							Message:   "Failed to create customers: " + err.Error(),
							Errors:    []customer.RowError{},
						}, nil
					}
					return bulkCustomersPayload{
						Customers: result.Created,
						Message:   result.Message(),
						Errors:    result.Failed,
					}, nil
				},
			},
			"createProduct": &graphql.Field{
				Type: productPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.productInput)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					req := productCreateRequest(argMap(p.Args["input"]))
					prod, err := r.ProductSvc.Create(p.Context, req)
					if err != nil {
						msg := "Validation failed"
						if !isFieldErrors(err) {
							msg = "Failed to create product"
						}
						return productPayload{
							Message: msg,
							Errors:  fieldErrors(p, err, "create product"),
						}, nil
					}
					return productPayload{
						Product: prod,
						Message: "Product created successfully",
						Errors:  []validate.FieldError{},
					}, nil
				},
			},
			"createOrder": &graphql.Field{
				Type: orderPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.orderInput)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					req := orderCreateRequest(argMap(p.Args["input"]))
					o, err := r.OrderSvc.Create(p.Context, req)
					if err != nil {
						return orderPayload{
							Message: orderFailMessage(err),
							Errors:  fieldErrors(p, err, "create order"),
						}, nil
					}
					return orderPayload{
						Order:   o,
						Message: "Order created successfully",
						Errors:  []validate.FieldError{},
					}, nil
				},
			},
		},
	})
}

// fieldErrors unwraps a service failure into payload errors. Field failures
// pass through as they are; anything else is logged and reported as a single
// general error.
func fieldErrors(p graphql.ResolveParams, err error, op string) []validate.FieldError {
	var errs validate.Errors
	if errors.As(err, &errs) {
		return errs
	}
	zctx.From(p.Context).Error(op, zap.Error(err))
	return []validate.FieldError{generalError(err)}
}

func generalError(err error) validate.FieldError {
	return validate.FieldError{Field: "general", Message: err.Error()}
}

func isFieldErrors(err error) bool {
	var errs validate.Errors
	return errors.As(err, &errs)
}

func customerFailMessage(err error) string {
	var errs validate.Errors
	if !errors.As(err, &errs) {
		return "Failed to create customer"
	}
	for _, fe := range errs {
		if fe.Kind == validate.KindAlreadyExists {
			return "Failed to create customer"
		}
	}
	return "Validation failed"
}

func orderFailMessage(err error) string {
	var errs validate.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Failed to create order"
	}
	switch first := errs[0]; {
	case first.Field == "customer_id":
		return "Invalid customer"
	case first.Kind == validate.KindRequired:
		return "No products selected"
	default:
		return "Invalid product IDs"
	}
}

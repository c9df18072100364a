package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/pavelkudinov/crm-api/internal/domain/validate"
)

// CreateRequest holds the input for creating one customer. Phone is optional
// and defaults to empty.
type CreateRequest struct {
	Name  string
	Email string
	Phone string
}

// RowError reports why one row of a bulk request was rejected, keyed by its
// position in the submitted list.
type RowError struct {
	Index  int
	Email  string
	Errors validate.Errors
}

// BulkResult is the outcome of a bulk create: rows that were created and rows
// that were rejected, independently per index.
type BulkResult struct {
	Created []Customer
	Failed  []RowError
}

// Message renders the human-readable summary for a bulk create response.
func (r *BulkResult) Message() string {
	msg := fmt.Sprintf("Successfully created %d customers", len(r.Created))
	if len(r.Failed) > 0 {
		msg += fmt.Sprintf(", %d failed", len(r.Failed))
	}
	return msg
}

// Service implements the customer mutation workflows: validation, existence
// checks, then writes. Validation failures come back as validate.Errors;
// anything else is an unexpected collaborator failure.
type Service struct {
	customers Repository
	now       func() time.Time
}

// NewService creates a customer Service backed by the given repository.
func NewService(customers Repository) *Service {
	return &Service{customers: customers, now: time.Now}
}

// Create validates the request, checks email uniqueness, and persists the
// customer. No row becomes visible unless every step passes.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Customer, error) {
	errs, err := s.validateAndCheck(ctx, s.customers, req)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return s.insert(ctx, s.customers, req)
}

// BulkCreate processes each row independently inside one enclosing
// transaction. Rows that fail validation or uniqueness are reported in
// BulkResult.Failed; the remaining rows commit together. Only an unexpected
// store failure aborts the whole batch.
func (s *Service) BulkCreate(ctx context.Context, reqs []CreateRequest) (*BulkResult, error) {
	result := &BulkResult{Created: []Customer{}, Failed: []RowError{}}

	err := s.customers.InTx(ctx, func(tx Repository) error {
		for i, req := range reqs {
			errs, err := s.validateAndCheck(ctx, tx, req)
			if err != nil {
				return errors.Wrapf(err, "row %d", i)
			}
			if len(errs) == 0 {
				c, err := s.insert(ctx, tx, req)
				if err == nil {
					result.Created = append(result.Created, *c)
					continue
				}
				if !errors.As(err, &errs) {
					return errors.Wrapf(err, "row %d", i)
				}
			}
			result.Failed = append(result.Failed, RowError{Index: i, Email: req.Email, Errors: errs})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateAndCheck runs the pure field rules and the store-level email
// existence check, collecting all field failures. The error return is
// reserved for unexpected store failures.
func (s *Service) validateAndCheck(ctx context.Context, repo Repository, req CreateRequest) (validate.Errors, error) {
	var errs validate.Errors
	if fe := validate.Email(req.Email); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := validate.Phone(req.Phone); fe != nil {
		errs = append(errs, *fe)
	}
	if len(errs) > 0 {
		return errs, nil
	}

	exists, err := repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.Wrap(err, "check email")
	}
	if exists {
		return validate.Errors{emailExistsError()}, nil
	}
	return nil, nil
}

func (s *Service) insert(ctx context.Context, repo Repository, req CreateRequest) (*Customer, error) {
	now := s.now().UTC()
	c := &Customer{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrEmailExists) {
			// Lost the race between the existence check and the insert.
			return nil, validate.Errors{emailExistsError()}
		}
		return nil, errors.Wrap(err, "create customer")
	}
	return c, nil
}

func emailExistsError() validate.FieldError {
	return validate.FieldError{
		Field:   "email",
		Kind:    validate.KindAlreadyExists,
		Message: "Email already exists",
	}
}

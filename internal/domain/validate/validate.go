// Package validate holds the pure field validation rules shared by the
// mutation workflows, plus the structured field-tagged error types they
// produce. Rules never touch the store.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind classifies a field failure.
type Kind string

const (
	KindInvalidFormat Kind = "INVALID_FORMAT"
	KindInvalidRange  Kind = "INVALID_RANGE"
	KindRequired      Kind = "REQUIRED"
	KindAlreadyExists Kind = "ALREADY_EXISTS"
	KindNotFound      Kind = "NOT_FOUND"
)

// FieldError is a single validation or existence failure tagged with the
// input field it refers to.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is a list of field failures collected by one workflow. It implements
// error so services can return it through the usual error path and resolvers
// can unwrap it with errors.As.
type Errors []FieldError

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9\s()-]+$`)
)

// Email checks the local@domain.tld shape. Returns nil on success.
func Email(s string) *FieldError {
	if !emailRe.MatchString(s) {
		return &FieldError{Field: "email", Kind: KindInvalidFormat, Message: "Invalid email format"}
	}
	return nil
}

// Phone checks that s contains only digits, spaces, '+', '-', '(' and ')'.
// The empty string is valid: phone is an optional field.
func Phone(s string) *FieldError {
	if s == "" {
		return nil
	}
	if !phoneRe.MatchString(s) {
		return &FieldError{
			Field:   "phone",
			Kind:    KindInvalidFormat,
			Message: "Invalid phone format. Use format like '+1234567890' or '123-456-7890'",
		}
	}
	return nil
}

// Price requires a strictly positive amount.
func Price(p decimal.Decimal) *FieldError {
	if !p.IsPositive() {
		return &FieldError{Field: "price", Kind: KindInvalidRange, Message: "Price must be positive"}
	}
	return nil
}

// Stock requires a non-negative quantity.
func Stock(n int) *FieldError {
	if n < 0 {
		return &FieldError{Field: "stock", Kind: KindInvalidRange, Message: "Stock cannot be negative"}
	}
	return nil
}

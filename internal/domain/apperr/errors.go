package apperr

import (
	"errors"
	"fmt"
)

// ErrNoData upstream catalog source returned nothing; callers treat it as an empty result.
var ErrNoData = errors.New("no data found in catalog source")

// ValidationError missing or malformed caller input. Nothing was mutated.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError referenced product or order does not exist.
type NotFoundError struct {
	Kind string // "product" | "order"
	Key  string
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case "product":
		return fmt.Sprintf("Product %s not found", e.Key)
	case "order":
		return "Order not found"
	default:
		return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
	}
}

// ProductNotFound builds a NotFoundError for an item name.
func ProductNotFound(name string) error {
	return &NotFoundError{Kind: "product", Key: name}
}

// OrderNotFound builds a NotFoundError for an order id.
func OrderNotFound(id string) error {
	return &NotFoundError{Kind: "order", Key: id}
}

// InsufficientStockError requested quantity exceeds what is available.
type InsufficientStockError struct {
	Item      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.Item, e.Available)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// AsNotFound unwraps a NotFoundError.
func AsNotFound(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	ok := errors.As(err, &nf)
	return nf, ok
}

// AsInsufficient unwraps an InsufficientStockError.
func AsInsufficient(err error) (*InsufficientStockError, bool) {
	var is *InsufficientStockError
	ok := errors.As(err, &is)
	return is, ok
}

// IsNoData reports whether err signals an empty upstream.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

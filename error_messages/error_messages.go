package error_messages

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownProduct = errors.New("product does not exist")
	ErrInvalidCatalog = errors.New("invalid catalog")

	ErrUnresolvedSKU        = errors.New("selection does not resolve to a SKU")
	ErrValidation           = errors.New("required order fields missing")
	ErrSubmissionInProgress = errors.New("an order submission is already in progress")

	ErrCircuitOpen = errors.New("fulfillment provider temporarily unavailable")
)

// ValidationError lists the required fields that were left blank. Submission
// is never attempted when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", name, e.Fields[name]))
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TransportError means the provider could not be reached or the request could
// not be built and sent.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProviderError is a non-success answer from the fulfillment provider.
// Status is zero when the provider SDK does not expose it.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s rejected order: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

package domain

import (
	"errors"
	"fmt"
)

// Error is a non-success HTTP response from the billing provider. It aborts
// the whole sync or report run; retry is left to the caller.
type Error struct {
	Resource   string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger: fetch %s: status %d", e.Resource, e.StatusCode)
}

// AsError unwraps err into a ledger Error, if it is one.
func AsError(err error) (*Error, bool) {
	var ledgerErr *Error
	if errors.As(err, &ledgerErr) {
		return ledgerErr, true
	}
	return nil, false
}

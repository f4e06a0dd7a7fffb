// Package shared defines the sentinel errors used across the Nite OS
// backend. Callers match them with errors.Is; the HTTP layer maps them to
// status codes so raw storage errors never leak to clients.
package shared

import "errors"

var (

	// repository-level errors
	ErrorNotFound = errors.New("not found")

	// ledger / checkout taxonomy
	ErrorAccountNotFound   = errors.New("account not found")
	ErrorInsufficientFunds = errors.New("insufficient nite balance")
	ErrorLockTimeout       = errors.New("user lock timeout")
	ErrorStorage           = errors.New("storage failure")

	// input errors
	ErrorValidation = errors.New("validation error")

	// auth errors
	ErrorInvalidToken = errors.New("invalid token")
)

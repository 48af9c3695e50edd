package payment

import "errors"

// Bank moves units of a named fungible token between two logical accounts.
// A transfer either fully debits and credits, or fails with no movement.
type Bank interface {
	Transfer(token string, from string, to string, amount int64) error
}

var (
	ErrInvalidAmount     = errors.New("transfer amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

package marketplace

import "errors"

var (
	// precondition violations
	ErrSystemPaused = errors.New("system paused")
	ErrNotTradeable = errors.New("collection not tradeable")
	ErrNotAdmin     = errors.New("caller is not the admin")

	// entitlement failures
	ErrNotOwner    = errors.New("caller is not the owner")
	ErrNotApproved = errors.New("marketplace is not approved")

	// state-conflict failures
	ErrAlreadyListed = errors.New("item already listed")
	ErrNotListed     = errors.New("item not listed")
	ErrNotSeller     = errors.New("caller is not the seller")

	// value-validation failures
	ErrInvalidPrice        = errors.New("invalid price")
	ErrFeeTooHigh          = errors.New("fee rate too high")
	ErrInsufficientPayment = errors.New("payment does not match price")
	ErrInsufficientFunds   = errors.New("insufficient ledger funds")

	// external-effect failures
	ErrTransferFailed = errors.New("payment transfer failed")
	ErrWithdrawFailed = errors.New("withdrawal transfer failed")
	ErrInsolvent      = errors.New("fee ledger exceeds held balance")
)

package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnknownPlan        = errors.New("unknown membership plan")
	ErrAmountMismatch     = errors.New("paid amount does not match order amount")
	ErrGateway            = errors.New("payment gateway error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSignature   = errors.New("invalid webhook signature")

	// Persistence errors. ErrActivationIncomplete marks the dangerous case:
	// the gateway confirmed the payment but the membership writes did not
	// commit, so the order needs background or support-assisted reconciliation.
	ErrOperationFailed      = errors.New("operation failed")
	ErrReadDatabaseRow      = errors.New("failed to read database row")
	ErrInvalidExecContext   = errors.New("invalid executor context")
	ErrActivationIncomplete = errors.New("payment confirmed but membership activation did not complete")
)

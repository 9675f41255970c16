package services

import "errors"

// Ledger error taxonomy. Handlers map these onto HTTP statuses; everything
// else that bubbles out of a unit of work is a store failure that already
// rolled the whole transaction back.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrTemplateNotFound  = errors.New("challenge template not found")
	ErrChallengeNotFound = errors.New("challenge not found")

	ErrInvalidTarget   = errors.New("target amount must be positive")
	ErrInvalidSnapshot = errors.New("account snapshot is invalid")

	ErrUnknownChallengeType = errors.New("no progress calculator registered for challenge type")
	ErrChallengeNotActive   = errors.New("challenge is not active")
)

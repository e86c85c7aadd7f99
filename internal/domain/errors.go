package domain

import "errors"

// Business-rule rejections returned verbatim to the handler layer. Handlers
// map them to HTTP status codes; services wrap them with context via
// fmt.Errorf("...: %w", Err...) so errors.Is still matches.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidState         = errors.New("invalid state for this operation")
	ErrLimitExceeded        = errors.New("borrow limit exceeded")
	ErrBookUnavailable      = errors.New("no copies available")
	ErrUserSuspended        = errors.New("user account is suspended")
	ErrDuplicateRequest     = errors.New("duplicate borrow request")
	ErrDuplicatePending     = errors.New("duplicate pending reservation")
	ErrNotOwner             = errors.New("requester does not own this resource")
	ErrAlreadyOverdue       = errors.New("borrowing is already overdue")
	ErrRenewalLimitExceeded = errors.New("renewal limit exceeded")
)

package loan

import "errors"

var (
	ErrNotFound          = errors.New("loan not found")
	ErrAlreadyApproved   = errors.New("loan already approved")
	ErrInvalidTransition = errors.New("loan not in a state that allows this transition")
	ErrPendingLoanExists = errors.New("customer already has a pending loan")
	ErrNotPayable        = errors.New("loan does not accept payments in its current state")
	ErrOverpayment       = errors.New("payment exceeds the outstanding balance")
)

package absence

import "errors"

var (
	ErrRequestNotFound  = errors.New("absence request not found")
	ErrInvalidDateRange = errors.New("end date cannot be before start date")
	ErrInvalidStatus    = errors.New("only pending requests can be approved, rejected or cancelled")
	ErrInvalidDecision  = errors.New("decision must be APPROVED or REJECTED")
)

// services/errors.go
package services

import "errors"

// Business errors returned by the core. Controllers translate these into
// HTTP statuses; nothing here is retried internally because every failure
// is a business rejection, not a transient fault.
var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrUnknownCoupon      = errors.New("invalid or inactive coupon code")
	ErrDuplicatePhone     = errors.New("phone number already registered")
	ErrAlreadyCompleted   = errors.New("already completed")
	ErrCommissionNotFound = errors.New("commission not found")
	ErrInvalidTransition  = errors.New("invalid commission status transition")
	ErrNotBeneficiary     = errors.New("commission does not belong to this patient")
	ErrValidation         = errors.New("validation failed")
)

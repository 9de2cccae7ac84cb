// Package errors defines the sentinel error taxonomy used to classify
// failures across the billing engine: validation, idempotency
// rejection, derivation defects, and storage/constraint violations.
package errors

import (
	"errors"
)

// Sentinel errors. Callers use errors.Is / the Is* helpers below to
// classify a failure rather than matching on message text.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyExists    = errors.New("resource already exists")
	ErrVersionConflict  = errors.New("version conflict")
	ErrValidation       = errors.New("validation error")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrIdempotent       = errors.New("duplicate operation rejected")
	ErrDatabase         = errors.New("storage error")
	ErrSystem           = errors.New("system error")
)

func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool    { return errors.Is(err, ErrAlreadyExists) }
func IsVersionConflict(err error) bool  { return errors.Is(err, ErrVersionConflict) }
func IsValidation(err error) bool       { return errors.Is(err, ErrValidation) }
func IsInvalidOperation(err error) bool { return errors.Is(err, ErrInvalidOperation) }
func IsIdempotent(err error) bool       { return errors.Is(err, ErrIdempotent) }
func IsDatabase(err error) bool         { return errors.Is(err, ErrDatabase) }

// As is re-exported so callers never need to import both this package
// and the standard errors package just to unwrap a typed error.
func As(err error, target interface{}) bool { return errors.As(err, target) }

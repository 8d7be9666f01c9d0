package models

import "errors"

var (
	ErrConflictData         = errors.New("data conflicts with existing data")
	ErrDataNotFound         = errors.New("data not found")
	ErrInvalidTransactionID = errors.New("transaction id must be exactly 12 decimal digits")
	ErrPaymentDeclined      = errors.New("payment declined by verifier")
	ErrOrderAlreadyPaid     = errors.New("order is already paid")
	ErrInvalidCredentials   = errors.New("invalid password")
	ErrInternalError        = errors.New("internal error")
)

package db

import "errors"

// Common database errors
var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrTransactionFailed  = errors.New("transaction failed")
	ErrSaveRunFailed      = errors.New("failed to save run")
)

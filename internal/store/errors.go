package store

import "fmt"

// StoreTransactionError reports a load that could not be committed. The
// transaction was rolled back, so the dataset still holds its previous rows.
type StoreTransactionError struct {
	Dataset string
	Op      string
	Cause   error
}

func (e *StoreTransactionError) Error() string {
	return fmt.Sprintf("load %s: %s failed, rolled back: %v", e.Dataset, e.Op, e.Cause)
}

func (e *StoreTransactionError) Unwrap() error {
	return e.Cause
}

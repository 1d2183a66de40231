package dataapi

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyData     = errors.New("data api returned no data")
)

// StatusError is a non-2xx reply from the data API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("data api error: status %d: %s", e.StatusCode, e.Body)
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("invalid credentials")
)

// CapacityError reports the first night that could not cover a requested
// stay. An absent ledger entry and an exhausted one look the same to callers.
type CapacityError struct {
	TypeID string
	Night  time.Time
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("no %s rooms left on %s", e.TypeID, e.Night.Format("2006-01-02"))
}

// ValidationError rejects a malformed request before any state is touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

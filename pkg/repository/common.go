package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// errCritical is the terminating error handed to repeater, matched by any criticalError
var errCritical = errors.New("critical database error")

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// Is makes every criticalError match errCritical
func (e *criticalError) Is(target error) bool {
	return target == errCritical
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// newRetrier makes the backoff used by all writes: lock errors are retried, critical ones stop it
func newRetrier() *repeater.Repeater {
	return repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
}

// retryable classifies a write error for repeater
func retryable(err error) error {
	if err == nil || isLockError(err) {
		return err
	}
	return &criticalError{err: err}
}

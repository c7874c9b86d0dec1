package circulation

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors returned by the loan ledger. Callers branch on these with
// errors.Is; anything else coming out of the ledger is wrapped in
// ErrStoreUnavailable.
var (
	ErrBookNotFound      = errors.New("book not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrOutOfStock        = errors.New("no copies available")
	ErrLoanLimitExceeded = errors.New("member has reached the active loan limit")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// IsNotFound reports whether the error identifies a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrLoanNotFound)
}

// IsBusinessRule reports whether the error is a rejected-but-valid request:
// the store is fine, the request just violates a circulation rule.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrOutOfStock) || errors.Is(err, ErrLoanLimitExceeded)
}

// IsRetryable reports whether retrying the same request later could succeed
// without anything else changing.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// wrapStore passes domain sentinels through untouched and folds everything
// else, including timeouts and driver failures, into ErrStoreUnavailable.
func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsBusinessRule(err) || errors.Is(err, ErrPermissionDenied) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// isMissingRow reports a gorm record-not-found without mapping it to a
// domain sentinel; the caller decides which entity was missing.
func isMissingRow(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

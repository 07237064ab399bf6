// api/errors/subscription_errors.go
package errors

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionLookup   = errors.New("subscription lookup failed")
)

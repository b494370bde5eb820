package webhooktransfer

import "errors"

var (
	// ErrInvalidEndpoint is returned if the webhook endpoint is not a valid URI.
	ErrInvalidEndpoint = errors.New("webhook endpoint must be a valid URI")
	// ErrUnexpectedStatus is returned if the webhook replies with a non 2xx
	// status code.
	ErrUnexpectedStatus = errors.New("webhook replied with unexpected status")
)

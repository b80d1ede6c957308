package wikiart

import "errors"

var (
	// ErrInvalidOption is returned when a client option has an invalid value.
	ErrInvalidOption = errors.New("invalid client option")

	// ErrRequestFailed wraps transport errors, including timeouts.
	ErrRequestFailed = errors.New("request failed")

	// ErrUnexpectedStatus is returned for non-200 responses.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("invalid response body")

	// ErrEmptyID is returned when a painting lookup has no id.
	ErrEmptyID = errors.New("painting id is empty")
)

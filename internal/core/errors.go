package core

import "errors"

var (
	// ErrConfiguration is returned when required configuration is missing or invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrModelResolution is returned when auto-pick finds no model at the provider.
	ErrModelResolution = errors.New("model resolution error")

	// ErrTransport wraps network and non-2xx HTTP failures of provider calls.
	ErrTransport = errors.New("transport error")

	// ErrMalformedResponse is returned when a completion lacks the reply text field.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrStorage is returned when the memory file cannot be read, parsed or written.
	ErrStorage = errors.New("storage error")
)

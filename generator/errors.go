package generator

import "errors"

var (
	// ErrGenerationFailed: the backend answered without any text payload.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrMalformedResponse: the payload is not JSON or misses a required field.
	ErrMalformedResponse = errors.New("malformed response")

	ErrEmptyInput   = errors.New("source content is empty")
	ErrUnknownStyle = errors.New("unknown style")
	ErrBusy         = errors.New("a transformation is already in flight")
)

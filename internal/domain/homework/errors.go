package homework

import (
	"errors"
	"fmt"
)

// Failure kinds raised while polling. The poller decides what to do with each of them.
var (
	ErrEndpointUnavailable = errors.New("endpoint unavailable")
	ErrTransport           = errors.New("request to API failed")
	ErrMalformedJSON       = errors.New("malformed JSON in API response")
	ErrMalformedPayload    = errors.New("malformed API payload")
	ErrEmptyResponse       = errors.New("empty or incomplete API response")
	ErrMissingField        = errors.New("missing field in homework record")
	ErrUnknownStatus       = errors.New("unknown homework status")
	ErrDelivery            = errors.New("message delivery failed")
)

// maxBodyInError bounds the response body quoted in EndpointError.Error; the full body stays in Body.
const maxBodyInError = 300

// EndpointError is returned when the API answers with a non-200 status.
type EndpointError struct {
	StatusCode int
	Reason     string
	Body       string
	Params     string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("API answered %d %s (request: %s), body: %s", e.StatusCode, e.Reason, e.Params, truncateRunes(e.Body, maxBodyInError))
}

func (e *EndpointError) Unwrap() error {
	return ErrEndpointUnavailable
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

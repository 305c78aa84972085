package sparql

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxErrorBody caps how much of an error response body is kept in the message.
const maxErrorBody = 512

// ErrUpstream marks every failure caused by the endpoint or the network path to it. Callers test
// for it with errors.Is.
var ErrUpstream = errors.New("sparql: upstream failure")

// EndpointError is returned when the endpoint answers with an HTTP error status.
type EndpointError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *EndpointError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sparql: endpoint returned %d", e.StatusCode)
	}

	return fmt.Sprintf("sparql: endpoint returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is(err, ErrUpstream) match endpoint errors.
func (e *EndpointError) Unwrap() error {
	return ErrUpstream
}

// IsEndpointError reports whether err wraps an *EndpointError.
func IsEndpointError(err error) bool {
	var e *EndpointError
	return errors.As(err, &e)
}

// IsBadQuery reports whether the endpoint rejected the query as malformed.
func IsBadQuery(err error) bool {
	var e *EndpointError
	if errors.As(err, &e) {
		return e.StatusCode == 400
	}

	return false
}

// parseEndpointError keeps a trimmed, single-line prefix of the response body.
func parseEndpointError(statusCode int, body []byte) *EndpointError {
	msg := strings.Join(strings.Fields(string(body)), " ")
	if len(msg) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}

		msg = msg[:cut] + "..."
	}

	return &EndpointError{StatusCode: statusCode, Message: msg}
}

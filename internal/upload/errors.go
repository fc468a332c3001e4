package upload

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies upload failures. The set is closed; each kind maps to one HTTP status.
type Kind int

const (
	// KindUpload covers network failures and provider rejections other than credentials.
	KindUpload Kind = iota
	// KindParse covers malformed multipart bodies and a missing or unnamed file field.
	KindParse
	// KindProviderAuth means the provider refused our credentials, or none were configured.
	KindProviderAuth
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindProviderAuth:
		return "provider_auth"
	default:
		return "upload"
	}
}

// Status returns the HTTP status code reported for the kind.
func (k Kind) Status() int {
	switch k {
	case KindParse:
		return http.StatusBadRequest
	case KindProviderAuth:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is an upload failure. Msg is safe to show to clients; Err holds the cause and is
// only logged.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil || e.Err.Error() == e.Msg {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrMissingFile is the cause reported when the request has no "file" part.
var ErrMissingFile = errors.New(`missing file field "file"`)

func parseError(msg string, err error) *Error {
	return &Error{Kind: KindParse, Msg: msg, Err: err}
}

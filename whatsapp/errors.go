package whatsapp

import "fmt"

// ValidationError reports a payload that failed schema validation. Request
// payloads are checked before any network call is made; response payloads are
// checked after receipt and before they are returned to the caller. Response
// is true for the latter case, which signals upstream contract drift rather
// than a caller mistake.
type ValidationError struct {
	Field    string
	Message  string
	Response bool
}

func (e *ValidationError) Error() string {
	if e.Response {
		return fmt.Sprintf("whatsapp: invalid response field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("whatsapp: invalid field %q: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PreconditionError is returned when an operation requires configuration the
// client was constructed without. No network call is made.
type PreconditionError struct {
	Field string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("whatsapp: %s must be configured for this operation", e.Field)
}

// APIError is a structured failure reported by the Graph API itself. The
// fields are carried verbatim from the error envelope so callers can branch
// on the remote code, subcode or trace id.
type APIError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode,omitempty"`
	FBTraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp: api error %d (%s): %s [trace %s]", e.Code, e.Type, e.Message, e.FBTraceID)
}

// TransportError covers everything between the caller and a recognizable API
// response: connection failures, non-JSON bodies, and non-success statuses
// whose body does not match the error envelope. StatusCode is zero when the
// HTTP exchange itself failed.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("whatsapp: transport failure: %v", e.Err)
	}
	return fmt.Sprintf("whatsapp: unexpected response (status %d): %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

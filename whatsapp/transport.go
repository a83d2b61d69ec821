package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

const defaultMaxBodyBytes = 4 * 1024 * 1024

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// requestOptions describes a single API call. Method defaults to GET. At most
// one of body and form may be set: body is serialized as JSON, form as
// multipart/form-data with its own boundary-aware content type.
type requestOptions struct {
	method  string
	headers map[string]string
	body    any
	form    *multipartForm
}

// transport is the single chokepoint every authenticated call passes through.
// It resolves URLs, attaches bearer authentication, and classifies non-success
// responses into APIError or TransportError. It performs exactly one HTTP
// attempt per invocation; callers needing resilience compose it externally.
type transport struct {
	cfg          Config
	httpClient   HTTPClient
	logger       zerolog.Logger
	maxBodyBytes int64
}

// buildURL concatenates base origin, API version and the resource path with
// single-slash separators. No further normalization is applied.
func (t *transport) buildURL(path string) string {
	return t.cfg.BaseURL + "/" + t.cfg.APIVersion + "/" + path
}

// do issues one authenticated request against the resolved URL and returns the
// raw JSON body on success. The caller is responsible for decoding and
// validating the body against the operation's response schema.
func (t *transport) do(ctx context.Context, path string, opts requestOptions) ([]byte, error) {
	return t.doURL(ctx, t.buildURL(path), opts)
}

// doURL is the same primitive without URL resolution. Media downloads use it
// directly because signed media URLs do not hang off the configured origin.
func (t *transport) doURL(ctx context.Context, rawURL string, opts requestOptions) ([]byte, error) {
	method := opts.method
	if method == "" {
		method = http.MethodGet
	}

	var reader io.Reader
	contentType := ""
	switch {
	case opts.form != nil:
		encoded, formType, err := opts.form.encode()
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
		contentType = formType
	case opts.body != nil:
		encoded, err := json.Marshal(opts.body)
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("marshal request body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("create request: %w", err)}
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range opts.headers {
		req.Header.Set(key, value)
	}
	// The bearer header always wins over caller-supplied headers.
	req.Header.Set("Authorization", "Bearer "+t.cfg.AccessToken)

	t.logger.Debug().
		Str("method", method).
		Str("url", rawURL).
		Msg("whatsapp transport request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("http do: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if !json.Valid(body) {
			return nil, &TransportError{
				StatusCode: resp.StatusCode,
				Body:       string(body),
				Err:        errors.New("response body is not JSON"),
			}
		}
		return body, nil
	}

	return nil, t.classifyFailure(resp.StatusCode, body)
}

// download performs the separately authenticated GET of a signed media URL and
// returns the binary content alongside its content type. The body here is not
// JSON, so it bypasses the JSON handling in doURL.
func (t *transport) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, "", newValidationError("url", "not a valid URL: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+t.cfg.AccessToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, "", &TransportError{Err: fmt.Errorf("http do: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes))
	if err != nil {
		return nil, "", &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", t.classifyFailure(resp.StatusCode, body)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// classifyFailure distinguishes a structured Graph API error from every other
// non-success outcome.
func (t *transport) classifyFailure(status int, body []byte) error {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil &&
		(envelope.Error.Code != 0 || envelope.Error.Message != "") {
		t.logger.Debug().
			Int("status", status).
			Int("code", envelope.Error.Code).
			Str("type", envelope.Error.Type).
			Str("fbtrace_id", envelope.Error.FBTraceID).
			Msg("whatsapp api error")
		return envelope.Error
	}
	return &TransportError{StatusCode: status, Body: string(body)}
}

// responseSchema is implemented by every response payload. parseResponse runs
// it after decoding so malformed upstream bodies never reach the caller.
type responseSchema interface {
	validate() error
}

func parseResponse(data []byte, out responseSchema) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &ValidationError{Field: "body", Message: fmt.Sprintf("decode response: %v", err), Response: true}
	}
	if err := out.validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Response = true
			return verr
		}
		return &ValidationError{Field: "body", Message: err.Error(), Response: true}
	}
	return nil
}

package whatsapp

import (
	"net/url"
	"strings"
)

// Defaults applied when the corresponding Config field is left empty.
const (
	DefaultBaseURL    = "https://graph.facebook.com"
	DefaultAPIVersion = "v19.0"
)

// Config carries the credentials and endpoint coordinates shared by every
// service. It is validated once at client construction and never mutated
// afterwards, so a single client may be used concurrently without
// coordination.
type Config struct {
	// AccessToken is the bearer credential attached to every request.
	AccessToken string
	// PhoneNumberID scopes most resource paths (messages, media, profile,
	// registration, QR codes).
	PhoneNumberID string
	// BusinessAccountID is the WABA id. It is only required by WABA-scoped
	// operations (templates, phone number listing, webhook subscriptions);
	// those fail with a PreconditionError when it is missing.
	BusinessAccountID string
	// APIVersion defaults to DefaultAPIVersion.
	APIVersion string
	// BaseURL defaults to DefaultBaseURL and must be an absolute http(s) URL.
	BaseURL string
}

func (c Config) withDefaults() Config {
	c.AccessToken = strings.TrimSpace(c.AccessToken)
	c.PhoneNumberID = strings.TrimSpace(c.PhoneNumberID)
	c.BusinessAccountID = strings.TrimSpace(c.BusinessAccountID)
	if strings.TrimSpace(c.APIVersion) == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	return c
}

func (c Config) validate() error {
	if c.AccessToken == "" {
		return newValidationError("access_token", "value is required")
	}
	if c.PhoneNumberID == "" {
		return newValidationError("phone_number_id", "value is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return newValidationError("base_url", "not a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return newValidationError("base_url", "unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return newValidationError("base_url", "host is required")
	}
	return nil
}

// requireBusinessAccount gates operations that address WABA-scoped resources.
func (c Config) requireBusinessAccount() error {
	if c.BusinessAccountID == "" {
		return &PreconditionError{Field: "business_account_id"}
	}
	return nil
}

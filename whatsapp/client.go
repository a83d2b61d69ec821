package whatsapp

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option customises the client during construction.
type Option func(*settings)

type settings struct {
	httpClient   HTTPClient
	logger       zerolog.Logger
	maxBodyBytes int64
}

// WithHTTPClient overrides the HTTP client used for every API call. Tests use
// this to substitute a stub transport.
func WithHTTPClient(client HTTPClient) Option {
	return func(s *settings) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithLogger attaches a zerolog logger. Without it the client is silent.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMaxBodyBytes adjusts how many bytes are retained from API response
// bodies.
func WithMaxBodyBytes(limit int64) Option {
	return func(s *settings) {
		if limit > 0 {
			s.maxBodyBytes = limit
		}
	}
}

// Client is a typed client for the WhatsApp Business Cloud API. Each resource
// family is exposed as a service sharing one transport; the client holds no
// mutable state after construction and is safe for concurrent use.
type Client struct {
	cfg       Config
	transport *transport

	Messages        *MessageService
	Media           *MediaService
	Templates       *TemplateService
	BusinessProfile *BusinessProfileService
	PhoneNumbers    *PhoneNumberService
	Registration    *RegistrationService
	TwoStep         *TwoStepService
	QR              *QRCodeService
	WABA            *WABAService
	Subscriptions   *SubscriptionService
}

// NewClient validates the configuration, applies defaults, and wires every
// resource service onto a shared transport. A missing access token, missing
// phone number id, or malformed base URL fails with a ValidationError naming
// the offending field.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &settings{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       zerolog.Nop(),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	t := &transport{
		cfg:          cfg,
		httpClient:   s.httpClient,
		logger:       s.logger,
		maxBodyBytes: s.maxBodyBytes,
	}

	c := &Client{cfg: cfg, transport: t}
	c.Messages = &MessageService{t: t, cfg: cfg}
	c.Media = &MediaService{t: t, cfg: cfg}
	c.Templates = &TemplateService{t: t, cfg: cfg}
	c.BusinessProfile = &BusinessProfileService{t: t, cfg: cfg}
	c.PhoneNumbers = &PhoneNumberService{t: t, cfg: cfg}
	c.Registration = &RegistrationService{t: t, cfg: cfg}
	c.TwoStep = &TwoStepService{t: t, cfg: cfg}
	c.QR = &QRCodeService{t: t, cfg: cfg}
	c.WABA = &WABAService{t: t, cfg: cfg}
	c.Subscriptions = &SubscriptionService{t: t, cfg: cfg}
	return c, nil
}

// Config returns the validated configuration the client was built with.
func (c *Client) Config() Config { return c.cfg }

// SuccessResponse is the Graph API acknowledgement shared by mutating
// endpoints that return no resource body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func (r *SuccessResponse) validate() error {
	if !r.Success {
		return newValidationError("success", "expected a success acknowledgement")
	}
	return nil
}

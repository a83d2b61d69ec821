package whatsapp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

const maxTemplateNameLength = 512

// TemplateCategory enumerates the approved template categories.
type TemplateCategory string

const (
	TemplateCategoryAuthentication TemplateCategory = "AUTHENTICATION"
	TemplateCategoryMarketing      TemplateCategory = "MARKETING"
	TemplateCategoryUtility        TemplateCategory = "UTILITY"
)

func (c TemplateCategory) valid() bool {
	switch c {
	case TemplateCategoryAuthentication, TemplateCategoryMarketing, TemplateCategoryUtility:
		return true
	}
	return false
}

// TemplateStatus enumerates the template review lifecycle states.
type TemplateStatus string

const (
	TemplateStatusApproved TemplateStatus = "APPROVED"
	TemplateStatusPending  TemplateStatus = "PENDING"
	TemplateStatusRejected TemplateStatus = "REJECTED"
	TemplateStatusPaused   TemplateStatus = "PAUSED"
	TemplateStatusDisabled TemplateStatus = "DISABLED"
)

// TemplateButtonType enumerates the button kinds a template may declare.
type TemplateButtonType string

const (
	TemplateButtonQuickReply  TemplateButtonType = "QUICK_REPLY"
	TemplateButtonURL         TemplateButtonType = "URL"
	TemplateButtonPhoneNumber TemplateButtonType = "PHONE_NUMBER"
	TemplateButtonOTP         TemplateButtonType = "OTP"
)

func (t TemplateButtonType) valid() bool {
	switch t {
	case TemplateButtonQuickReply, TemplateButtonURL, TemplateButtonPhoneNumber, TemplateButtonOTP:
		return true
	}
	return false
}

// MessageTemplate is a pre-approved template as returned by the WABA template
// listing.
type MessageTemplate struct {
	ID         string                        `json:"id"`
	Name       string                        `json:"name"`
	Language   string                        `json:"language"`
	Category   TemplateCategory              `json:"category"`
	Status     TemplateStatus                `json:"status"`
	Components []TemplateDefinitionComponent `json:"components,omitempty"`
}

// TemplateDefinitionComponent declares one structural component of a
// template (header, body, footer or button block).
type TemplateDefinitionComponent struct {
	Type    string           `json:"type"`
	Format  string           `json:"format,omitempty"`
	Text    string           `json:"text,omitempty"`
	Buttons []TemplateButton `json:"buttons,omitempty"`
}

// TemplateButton declares one button inside a BUTTONS component.
type TemplateButton struct {
	Type        TemplateButtonType `json:"type"`
	Text        string             `json:"text,omitempty"`
	URL         string             `json:"url,omitempty"`
	PhoneNumber string             `json:"phone_number,omitempty"`
}

// ListTemplatesResponse pages through the WABA's templates.
type ListTemplatesResponse struct {
	Data   []MessageTemplate `json:"data"`
	Paging *Paging           `json:"paging,omitempty"`
}

func (r *ListTemplatesResponse) validate() error {
	for i, tpl := range r.Data {
		if tpl.Name == "" && tpl.ID == "" {
			return newValidationError("data", "template at index %d has neither id nor name", i)
		}
	}
	return nil
}

// CreateTemplateRequest submits a new template for review.
type CreateTemplateRequest struct {
	Name                string                        `json:"name"`
	Language            string                        `json:"language"`
	Category            TemplateCategory              `json:"category"`
	Components          []TemplateDefinitionComponent `json:"components"`
	AllowCategoryChange bool                          `json:"allow_category_change,omitempty"`
}

func (r *CreateTemplateRequest) validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return newValidationError("name", "value is required")
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLength {
		return newValidationError("name", "exceeds maximum length of %d characters", maxTemplateNameLength)
	}
	if strings.TrimSpace(r.Language) == "" {
		return newValidationError("language", "value is required")
	}
	if !r.Category.valid() {
		return newValidationError("category", "unsupported category %q", string(r.Category))
	}
	if len(r.Components) == 0 {
		return newValidationError("components", "at least one component is required")
	}
	for i, comp := range r.Components {
		for j, btn := range comp.Buttons {
			if !btn.Type.valid() {
				return newValidationError("components.buttons.type", "unsupported button type %q at component %d button %d", string(btn.Type), i, j)
			}
		}
	}
	return nil
}

// CreateTemplateResponse reports the id and initial review state of a newly
// submitted template.
type CreateTemplateResponse struct {
	ID       string           `json:"id"`
	Status   TemplateStatus   `json:"status"`
	Category TemplateCategory `json:"category"`
}

func (r *CreateTemplateResponse) validate() error {
	if r.ID == "" {
		return newValidationError("id", "value is required")
	}
	return nil
}

// TemplateService manages message templates. Every operation is WABA-scoped
// and requires a configured business account id.
type TemplateService struct {
	t   *transport
	cfg Config
}

// List returns the WABA's templates, honoring field selection, pagination
// cursors and filter predicates.
func (s *TemplateService) List(ctx context.Context, opts *ListOptions) (*ListTemplatesResponse, error) {
	if err := s.cfg.requireBusinessAccount(); err != nil {
		return nil, err
	}
	values, err := opts.query()
	if err != nil {
		return nil, err
	}

	data, err := s.t.do(ctx, withQuery(s.cfg.BusinessAccountID+"/message_templates", values), requestOptions{})
	if err != nil {
		return nil, err
	}

	var out ListTemplatesResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create submits a template for review.
func (s *TemplateService) Create(ctx context.Context, req *CreateTemplateRequest) (*CreateTemplateResponse, error) {
	if err := s.cfg.requireBusinessAccount(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, newValidationError("template", "value is required")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	data, err := s.t.do(ctx, s.cfg.BusinessAccountID+"/message_templates", requestOptions{
		method: http.MethodPost,
		body:   req,
	})
	if err != nil {
		return nil, err
	}

	var out CreateTemplateResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a template by name. All language versions of the name are
// deleted together, which is how the Graph API scopes template deletion.
func (s *TemplateService) Delete(ctx context.Context, name string) (*SuccessResponse, error) {
	if err := s.cfg.requireBusinessAccount(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError("name", "value is required")
	}

	values := url.Values{}
	values.Set("name", name)
	data, err := s.t.do(ctx, withQuery(s.cfg.BusinessAccountID+"/message_templates", values), requestOptions{
		method: http.MethodDelete,
	})
	if err != nil {
		return nil, err
	}

	var out SuccessResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

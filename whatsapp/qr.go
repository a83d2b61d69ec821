package whatsapp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

const maxPrefilledMessageLength = 1000

// QRImageFormat selects the rendered image format for a QR code deep link.
type QRImageFormat string

const (
	QRImageFormatSVG QRImageFormat = "SVG"
	QRImageFormatPNG QRImageFormat = "PNG"
)

func (f QRImageFormat) valid() bool {
	return f == QRImageFormatSVG || f == QRImageFormatPNG
}

// QRCode is a message deep link with an optional rendered QR image.
type QRCode struct {
	Code             string `json:"code"`
	PrefilledMessage string `json:"prefilled_message"`
	DeepLinkURL      string `json:"deep_link_url,omitempty"`
	QRImageURL       string `json:"qr_image_url,omitempty"`
}

func (q *QRCode) validate() error {
	if q.Code == "" {
		return newValidationError("code", "value is required")
	}
	return nil
}

// ListQRCodesResponse wraps the QR code listing.
type ListQRCodesResponse struct {
	Data []QRCode `json:"data"`
}

func (r *ListQRCodesResponse) validate() error {
	for i := range r.Data {
		if r.Data[i].Code == "" {
			return newValidationError("data.code", "empty code at index %d", i)
		}
	}
	return nil
}

// QRCodeService manages message QR codes and their deep links.
type QRCodeService struct {
	t   *transport
	cfg Config
}

// Create registers a new QR code whose scan opens a conversation prefilled
// with the given message.
func (s *QRCodeService) Create(ctx context.Context, prefilledMessage string, format QRImageFormat) (*QRCode, error) {
	if strings.TrimSpace(prefilledMessage) == "" {
		return nil, newValidationError("prefilled_message", "value is required")
	}
	if utf8.RuneCountInString(prefilledMessage) > maxPrefilledMessageLength {
		return nil, newValidationError("prefilled_message", "exceeds maximum length of %d characters", maxPrefilledMessageLength)
	}
	if format == "" {
		format = QRImageFormatSVG
	}
	if !format.valid() {
		return nil, newValidationError("generate_qr_image", "unsupported image format %q", string(format))
	}

	payload := map[string]string{
		"prefilled_message": prefilledMessage,
		"generate_qr_image": string(format),
	}
	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/message_qrdls", requestOptions{
		method: http.MethodPost,
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var out QRCode
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every QR code registered on the phone number.
func (s *QRCodeService) List(ctx context.Context) (*ListQRCodesResponse, error) {
	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/message_qrdls", requestOptions{})
	if err != nil {
		return nil, err
	}

	var out ListQRCodesResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a single QR code by its code identifier.
func (s *QRCodeService) Get(ctx context.Context, code string) (*QRCode, error) {
	if strings.TrimSpace(code) == "" {
		return nil, newValidationError("code", "value is required")
	}

	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/message_qrdls/"+url.PathEscape(code), requestOptions{})
	if err != nil {
		return nil, err
	}

	var list ListQRCodesResponse
	if err := parseResponse(data, &list); err != nil {
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, &ValidationError{Field: "data", Message: "expected one QR code entry", Response: true}
	}
	return &list.Data[0], nil
}

// Update replaces the prefilled message on an existing QR code.
func (s *QRCodeService) Update(ctx context.Context, code, prefilledMessage string) (*QRCode, error) {
	if strings.TrimSpace(code) == "" {
		return nil, newValidationError("code", "value is required")
	}
	if strings.TrimSpace(prefilledMessage) == "" {
		return nil, newValidationError("prefilled_message", "value is required")
	}
	if utf8.RuneCountInString(prefilledMessage) > maxPrefilledMessageLength {
		return nil, newValidationError("prefilled_message", "exceeds maximum length of %d characters", maxPrefilledMessageLength)
	}

	payload := map[string]string{"prefilled_message": prefilledMessage}
	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/message_qrdls/"+url.PathEscape(code), requestOptions{
		method: http.MethodPost,
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var out QRCode
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a QR code by its code identifier.
func (s *QRCodeService) Delete(ctx context.Context, code string) (*SuccessResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, newValidationError("code", "value is required")
	}

	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/message_qrdls/"+url.PathEscape(code), requestOptions{
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

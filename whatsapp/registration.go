package whatsapp

import (
	"context"
	"net/http"
	"unicode"
)

// validatePIN enforces the fixed six-digit shape shared by registration and
// two-step verification.
func validatePIN(field, pin string) error {
	if len(pin) != 6 {
		return newValidationError(field, "must be exactly 6 digits")
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return newValidationError(field, "must contain digits only")
		}
	}
	return nil
}

// RegistrationService registers and deregisters the phone number with the
// Cloud API.
type RegistrationService struct {
	t   *transport
	cfg Config
}

// Register activates the phone number for Cloud API messaging using the
// account's two-step verification PIN.
func (s *RegistrationService) Register(ctx context.Context, pin string) (*SuccessResponse, error) {
	if err := validatePIN("pin", pin); err != nil {
		return nil, err
	}

	payload := map[string]string{
		"messaging_product": MessagingProduct,
		"pin":               pin,
	}
	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/register", requestOptions{
		method: http.MethodPost,
		body:   payload,
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

// Deregister removes the phone number from Cloud API messaging.
func (s *RegistrationService) Deregister(ctx context.Context) (*SuccessResponse, error) {
	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/deregister", requestOptions{
		method: http.MethodPost,
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

// TwoStepService manages the account's two-step verification PIN.
type TwoStepService struct {
	t   *transport
	cfg Config
}

// SetPIN replaces the two-step verification PIN. The PIN must be exactly six
// digits; anything else is rejected before any network call.
func (s *TwoStepService) SetPIN(ctx context.Context, pin string) (*SuccessResponse, error) {
	if err := validatePIN("pin", pin); err != nil {
		return nil, err
	}

	payload := map[string]string{"pin": pin}
	data, err := s.t.do(ctx, s.cfg.PhoneNumberID, requestOptions{
		method: http.MethodPost,
		body:   payload,
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

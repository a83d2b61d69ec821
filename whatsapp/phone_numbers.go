package whatsapp

import (
	"context"
	"net/http"
	"strings"
)

// VerificationStatus enumerates the code verification states a phone number
// can be in.
type VerificationStatus string

const (
	VerificationStatusNotVerified VerificationStatus = "NOT_VERIFIED"
	VerificationStatusVerified    VerificationStatus = "VERIFIED"
	VerificationStatusExpired     VerificationStatus = "EXPIRED"
)

// QualityRating enumerates the messaging quality scores.
type QualityRating string

const (
	QualityRatingGreen   QualityRating = "GREEN"
	QualityRatingYellow  QualityRating = "YELLOW"
	QualityRatingRed     QualityRating = "RED"
	QualityRatingNA      QualityRating = "NA"
	QualityRatingUnknown QualityRating = "UNKNOWN"
)

// CodeMethod selects how a verification code is delivered.
type CodeMethod string

const (
	CodeMethodSMS   CodeMethod = "SMS"
	CodeMethodVoice CodeMethod = "VOICE"
)

// PhoneNumber is a registered business phone number.
type PhoneNumber struct {
	ID                     string             `json:"id"`
	DisplayPhoneNumber     string             `json:"display_phone_number"`
	VerifiedName           string             `json:"verified_name"`
	CodeVerificationStatus VerificationStatus `json:"code_verification_status,omitempty"`
	QualityRating          QualityRating      `json:"quality_rating,omitempty"`
	NameStatus             string             `json:"name_status,omitempty"`
}

func (p *PhoneNumber) validate() error {
	if p.ID == "" {
		return newValidationError("id", "value is required")
	}
	return nil
}

// ListPhoneNumbersResponse pages through the WABA's phone numbers.
type ListPhoneNumbersResponse struct {
	Data   []PhoneNumber `json:"data"`
	Paging *Paging       `json:"paging,omitempty"`
}

func (r *ListPhoneNumbersResponse) validate() error {
	for i := range r.Data {
		if r.Data[i].ID == "" {
			return newValidationError("data.id", "empty id at index %d", i)
		}
	}
	return nil
}

// PhoneNumberService reads phone number state and drives code verification.
type PhoneNumberService struct {
	t   *transport
	cfg Config
}

// List returns the phone numbers owned by the configured WABA.
func (s *PhoneNumberService) List(ctx context.Context, fields ...string) (*ListPhoneNumbersResponse, error) {
	if err := s.cfg.requireBusinessAccount(); err != nil {
		return nil, err
	}

	path := withQuery(s.cfg.BusinessAccountID+"/phone_numbers", fieldsQuery(fields))
	data, err := s.t.do(ctx, path, requestOptions{})
	if err != nil {
		return nil, err
	}

	var out ListPhoneNumbersResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the configured phone number's details.
func (s *PhoneNumberService) Get(ctx context.Context, fields ...string) (*PhoneNumber, error) {
	path := withQuery(s.cfg.PhoneNumberID, fieldsQuery(fields))
	data, err := s.t.do(ctx, path, requestOptions{})
	if err != nil {
		return nil, err
	}

	var out PhoneNumber
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestVerificationCode asks the platform to deliver a verification code
// via SMS or voice call, localised to the given language.
func (s *PhoneNumberService) RequestVerificationCode(ctx context.Context, method CodeMethod, language string) (*SuccessResponse, error) {
	switch method {
	case CodeMethodSMS, CodeMethodVoice:
	default:
		return nil, newValidationError("code_method", "unsupported method %q", string(method))
	}
	if strings.TrimSpace(language) == "" {
		return nil, newValidationError("language", "value is required")
	}

	payload := map[string]string{
		"code_method": string(method),
		"language":    language,
	}
	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/request_code", requestOptions{
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

// VerifyCode submits the code delivered by RequestVerificationCode.
func (s *PhoneNumberService) VerifyCode(ctx context.Context, code string) (*SuccessResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, newValidationError("code", "value is required")
	}

	payload := map[string]string{"code": code}
	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/verify_code", requestOptions{
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

// IsVerified reports whether the configured phone number has a verified code
// status. This is a best-effort check: any failure is reported as false
// rather than an error. Do not copy this pattern into new methods; it exists
// because callers rely on the boolean contract.
func (s *PhoneNumberService) IsVerified(ctx context.Context) bool {
	number, err := s.Get(ctx, "code_verification_status")
	if err != nil {
		return false
	}
	return number.CodeVerificationStatus == VerificationStatusVerified
}

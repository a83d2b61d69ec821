package whatsapp

import (
	"context"
	"net/http"
)

// AccountReviewStatus enumerates the WABA review states.
type AccountReviewStatus string

const (
	AccountReviewApproved AccountReviewStatus = "APPROVED"
	AccountReviewPending  AccountReviewStatus = "PENDING"
	AccountReviewRejected AccountReviewStatus = "REJECTED"
)

// BusinessAccount is the WhatsApp Business Account owning phone numbers,
// templates and webhook subscriptions.
type BusinessAccount struct {
	ID                       string              `json:"id"`
	Name                     string              `json:"name,omitempty"`
	Currency                 string              `json:"currency,omitempty"`
	TimezoneID               string              `json:"timezone_id,omitempty"`
	MessageTemplateNamespace string              `json:"message_template_namespace,omitempty"`
	AccountReviewStatus      AccountReviewStatus `json:"account_review_status,omitempty"`
}

func (a *BusinessAccount) validate() error {
	if a.ID == "" {
		return newValidationError("id", "value is required")
	}
	return nil
}

// WABAService reads the business account resource.
type WABAService struct {
	t   *transport
	cfg Config
}

// Get returns the configured business account. Requires a configured business
// account id.
func (s *WABAService) Get(ctx context.Context, fields ...string) (*BusinessAccount, error) {
	if err := s.cfg.requireBusinessAccount(); err != nil {
		return nil, err
	}

	path := withQuery(s.cfg.BusinessAccountID, fieldsQuery(fields))
	data, err := s.t.do(ctx, path, requestOptions{})
	if err != nil {
		return nil, err
	}

	var out BusinessAccount
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Subscription is one app subscribed to the WABA's webhook events.
type Subscription struct {
	WhatsAppBusinessAPIData SubscribedApp `json:"whatsapp_business_api_data"`
}

// SubscribedApp identifies the subscribed application.
type SubscribedApp struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Link string `json:"link,omitempty"`
}

// ListSubscriptionsResponse wraps the subscribed apps listing.
type ListSubscriptionsResponse struct {
	Data []Subscription `json:"data"`
}

func (r *ListSubscriptionsResponse) validate() error { return nil }

// SubscriptionService manages the app's webhook subscription on the WABA.
// These endpoints hang off the business account rather than the phone number,
// so every path here is rooted at the configured business account id.
type SubscriptionService struct {
	t   *transport
	cfg Config
}

// Subscribe registers the calling app for webhook delivery on the WABA.
func (s *SubscriptionService) Subscribe(ctx context.Context) (*SuccessResponse, error) {
	if err := s.cfg.requireBusinessAccount(); err != nil {
		return nil, err
	}

	data, err := s.t.do(ctx, s.cfg.BusinessAccountID+"/subscribed_apps", requestOptions{
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

// List returns the apps currently subscribed to the WABA.
func (s *SubscriptionService) List(ctx context.Context) (*ListSubscriptionsResponse, error) {
	if err := s.cfg.requireBusinessAccount(); err != nil {
		return nil, err
	}

	data, err := s.t.do(ctx, s.cfg.BusinessAccountID+"/subscribed_apps", requestOptions{})
	if err != nil {
		return nil, err
	}

	var out ListSubscriptionsResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unsubscribe removes the calling app's webhook subscription.
func (s *SubscriptionService) Unsubscribe(ctx context.Context) (*SuccessResponse, error) {
	if err := s.cfg.requireBusinessAccount(); err != nil {
		return nil, err
	}

	data, err := s.t.do(ctx, s.cfg.BusinessAccountID+"/subscribed_apps", requestOptions{
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

// IsSubscribed reports whether any app subscription exists on the WABA. This
// is a best-effort check: any failure, including a missing business account
// id, is reported as false rather than an error. Do not copy this pattern
// into new methods; it exists because callers rely on the boolean contract.
func (s *SubscriptionService) IsSubscribed(ctx context.Context) bool {
	subs, err := s.List(ctx)
	if err != nil {
		return false
	}
	return len(subs.Data) > 0
}

package whatsapp

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxProfileAboutLength       = 256
	maxProfileAddressLength     = 256
	maxProfileDescriptionLength = 512
	maxProfileEmailLength       = 128
	maxProfileWebsites          = 2
	maxProfileWebsiteLength     = 256
)

// Vertical enumerates the business verticals the profile may declare.
type Vertical string

const (
	VerticalUndefined     Vertical = "UNDEFINED"
	VerticalOther         Vertical = "OTHER"
	VerticalAuto          Vertical = "AUTO"
	VerticalBeauty        Vertical = "BEAUTY"
	VerticalApparel       Vertical = "APPAREL"
	VerticalEducation     Vertical = "EDU"
	VerticalEntertainment Vertical = "ENTERTAIN"
	VerticalEventPlanning Vertical = "EVENT_PLAN"
	VerticalFinance       Vertical = "FINANCE"
	VerticalGrocery       Vertical = "GROCERY"
	VerticalGovernment    Vertical = "GOVT"
	VerticalHotel         Vertical = "HOTEL"
	VerticalHealth        Vertical = "HEALTH"
	VerticalNonprofit     Vertical = "NONPROFIT"
	VerticalProfessional  Vertical = "PROF_SERVICES"
	VerticalRetail        Vertical = "RETAIL"
	VerticalTravel        Vertical = "TRAVEL"
	VerticalRestaurant    Vertical = "RESTAURANT"
	VerticalNotABusiness  Vertical = "NOT_A_BIZ"
)

func (v Vertical) valid() bool {
	switch v {
	case VerticalUndefined, VerticalOther, VerticalAuto, VerticalBeauty, VerticalApparel,
		VerticalEducation, VerticalEntertainment, VerticalEventPlanning, VerticalFinance,
		VerticalGrocery, VerticalGovernment, VerticalHotel, VerticalHealth, VerticalNonprofit,
		VerticalProfessional, VerticalRetail, VerticalTravel, VerticalRestaurant, VerticalNotABusiness:
		return true
	}
	return false
}

// BusinessProfile is the public profile attached to the phone number.
type BusinessProfile struct {
	About             string   `json:"about,omitempty"`
	Address           string   `json:"address,omitempty"`
	Description       string   `json:"description,omitempty"`
	Email             string   `json:"email,omitempty"`
	ProfilePictureURL string   `json:"profile_picture_url,omitempty"`
	Websites          []string `json:"websites,omitempty"`
	Vertical          Vertical `json:"vertical,omitempty"`
	MessagingProduct  string   `json:"messaging_product,omitempty"`
}

// GetBusinessProfileResponse wraps the single-element data array the profile
// endpoint returns.
type GetBusinessProfileResponse struct {
	Data []BusinessProfile `json:"data"`
}

func (r *GetBusinessProfileResponse) validate() error {
	if len(r.Data) == 0 {
		return newValidationError("data", "expected at least one profile entry")
	}
	return nil
}

// BusinessProfileUpdate is the mutable subset of the business profile. Only
// non-zero fields are sent.
type BusinessProfileUpdate struct {
	MessagingProduct string   `json:"messaging_product"`
	About            string   `json:"about,omitempty"`
	Address          string   `json:"address,omitempty"`
	Description      string   `json:"description,omitempty"`
	Email            string   `json:"email,omitempty"`
	Websites         []string `json:"websites,omitempty"`
	Vertical         Vertical `json:"vertical,omitempty"`
}

func (u *BusinessProfileUpdate) validate() error {
	if utf8.RuneCountInString(u.About) > maxProfileAboutLength {
		return newValidationError("about", "exceeds maximum length of %d characters", maxProfileAboutLength)
	}
	if utf8.RuneCountInString(u.Address) > maxProfileAddressLength {
		return newValidationError("address", "exceeds maximum length of %d characters", maxProfileAddressLength)
	}
	if utf8.RuneCountInString(u.Description) > maxProfileDescriptionLength {
		return newValidationError("description", "exceeds maximum length of %d characters", maxProfileDescriptionLength)
	}
	if u.Email != "" {
		if utf8.RuneCountInString(u.Email) > maxProfileEmailLength {
			return newValidationError("email", "exceeds maximum length of %d characters", maxProfileEmailLength)
		}
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return newValidationError("email", "not a valid address: %v", err)
		}
	}
	if len(u.Websites) > maxProfileWebsites {
		return newValidationError("websites", "at most %d websites are allowed", maxProfileWebsites)
	}
	for i, site := range u.Websites {
		if utf8.RuneCountInString(site) > maxProfileWebsiteLength {
			return newValidationError("websites", "website at index %d exceeds maximum length of %d characters", i, maxProfileWebsiteLength)
		}
		if !strings.HasPrefix(site, "http://") && !strings.HasPrefix(site, "https://") {
			return newValidationError("websites", "website at index %d must start with http:// or https://", i)
		}
	}
	if u.Vertical != "" && !u.Vertical.valid() {
		return newValidationError("vertical", "unsupported vertical %q", string(u.Vertical))
	}
	return nil
}

// BusinessProfileService reads and updates the phone number's public profile.
type BusinessProfileService struct {
	t   *transport
	cfg Config
}

// Get returns the business profile. Pass field names to restrict the
// projection; they are joined by comma into the fields query parameter.
func (s *BusinessProfileService) Get(ctx context.Context, fields ...string) (*BusinessProfile, error) {
	path := withQuery(s.cfg.PhoneNumberID+"/whatsapp_business_profile", fieldsQuery(fields))
	data, err := s.t.do(ctx, path, requestOptions{})
	if err != nil {
		return nil, err
	}

	var out GetBusinessProfileResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out.Data[0], nil
}

// Update applies the supplied profile changes after validating every
// constrained field locally.
func (s *BusinessProfileService) Update(ctx context.Context, update *BusinessProfileUpdate) (*SuccessResponse, error) {
	if update == nil {
		return nil, newValidationError("profile", "value is required")
	}
	if update.MessagingProduct == "" {
		update.MessagingProduct = MessagingProduct
	}
	if err := update.validate(); err != nil {
		return nil, err
	}

	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/whatsapp_business_profile", requestOptions{
		method: http.MethodPost,
		body:   update,
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

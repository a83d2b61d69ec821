package whatsapp

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"
)

// MessagingProduct is the fixed product discriminator the Cloud API expects on
// every message payload.
const MessagingProduct = "whatsapp"

const maxTextBodyLength = 4096

// MessageType enumerates the supported outbound message kinds.
type MessageType string

const (
	MessageTypeText        MessageType = "text"
	MessageTypeImage       MessageType = "image"
	MessageTypeAudio       MessageType = "audio"
	MessageTypeVideo       MessageType = "video"
	MessageTypeDocument    MessageType = "document"
	MessageTypeSticker     MessageType = "sticker"
	MessageTypeLocation    MessageType = "location"
	MessageTypeContacts    MessageType = "contacts"
	MessageTypeReaction    MessageType = "reaction"
	MessageTypeInteractive MessageType = "interactive"
	MessageTypeTemplate    MessageType = "template"
)

// LanguagePolicy controls template language resolution.
type LanguagePolicy string

// LanguagePolicyDeterministic is the only policy the Cloud API accepts and the
// default applied when the field is omitted.
const LanguagePolicyDeterministic LanguagePolicy = "deterministic"

// Message is an outbound message payload. Exactly one content field matching
// Type must be populated. MessagingProduct, RecipientType and Type are filled
// in by applyDefaults when omitted.
type Message struct {
	MessagingProduct string          `json:"messaging_product"`
	RecipientType    string          `json:"recipient_type,omitempty"`
	To               string          `json:"to"`
	Type             MessageType     `json:"type"`
	Context          *MessageContext `json:"context,omitempty"`

	Text        *Text         `json:"text,omitempty"`
	Image       *MediaRef     `json:"image,omitempty"`
	Audio       *MediaRef     `json:"audio,omitempty"`
	Video       *MediaRef     `json:"video,omitempty"`
	Document    *MediaRef     `json:"document,omitempty"`
	Sticker     *MediaRef     `json:"sticker,omitempty"`
	Location    *Location     `json:"location,omitempty"`
	Contacts    []ContactCard `json:"contacts,omitempty"`
	Reaction    *Reaction     `json:"reaction,omitempty"`
	Interactive *Interactive  `json:"interactive,omitempty"`
	Template    *Template     `json:"template,omitempty"`
}

// MessageContext references the message being replied to.
type MessageContext struct {
	MessageID string `json:"message_id"`
}

// Text is the body of a text message.
type Text struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url,omitempty"`
}

// MediaRef points at media either by a previously uploaded id or by a public
// link; exactly one of the two must be set.
type MediaRef struct {
	ID       string `json:"id,omitempty"`
	Link     string `json:"link,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

func (m *MediaRef) validate(field string) error {
	if m.ID == "" && m.Link == "" {
		return newValidationError(field, "either id or link is required")
	}
	if m.ID != "" && m.Link != "" {
		return newValidationError(field, "id and link are mutually exclusive")
	}
	return nil
}

// Location is a point on the map with optional venue details.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

func (l *Location) validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return newValidationError("location.latitude", "must be between -90 and 90")
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return newValidationError("location.longitude", "must be between -180 and 180")
	}
	return nil
}

// Reaction attaches an emoji to a previously received message. An empty emoji
// removes the reaction.
type Reaction struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// ContactCard is a shared contact.
type ContactCard struct {
	Name     ContactName    `json:"name"`
	Phones   []ContactPhone `json:"phones,omitempty"`
	Emails   []ContactEmail `json:"emails,omitempty"`
	Org      *ContactOrg    `json:"org,omitempty"`
	URLs     []ContactURL   `json:"urls,omitempty"`
	Birthday string         `json:"birthday,omitempty"`
}

// ContactName requires at least the formatted display name.
type ContactName struct {
	FormattedName string `json:"formatted_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	MiddleName    string `json:"middle_name,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
}

// ContactPhone is one phone entry on a contact card.
type ContactPhone struct {
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type,omitempty"`
	WaID  string `json:"wa_id,omitempty"`
}

// ContactEmail is one email entry on a contact card.
type ContactEmail struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type,omitempty"`
}

// ContactOrg describes the contact's organisation.
type ContactOrg struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
}

// ContactURL is one URL entry on a contact card.
type ContactURL struct {
	URL  string `json:"url,omitempty"`
	Type string `json:"type,omitempty"`
}

// InteractiveType enumerates the interactive message kinds.
type InteractiveType string

const (
	InteractiveTypeButton InteractiveType = "button"
	InteractiveTypeList   InteractiveType = "list"
)

// Interactive is a button or list message.
type Interactive struct {
	Type   InteractiveType    `json:"type"`
	Header *InteractiveHeader `json:"header,omitempty"`
	Body   *InteractiveBody   `json:"body"`
	Footer *InteractiveFooter `json:"footer,omitempty"`
	Action *InteractiveAction `json:"action"`
}

// InteractiveHeader tops an interactive message with text or media.
type InteractiveHeader struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Image    *MediaRef `json:"image,omitempty"`
	Video    *MediaRef `json:"video,omitempty"`
	Document *MediaRef `json:"document,omitempty"`
}

// InteractiveBody carries the main text of an interactive message.
type InteractiveBody struct {
	Text string `json:"text"`
}

// InteractiveFooter is the optional footer line.
type InteractiveFooter struct {
	Text string `json:"text"`
}

// InteractiveAction holds the buttons or list sections the recipient can act
// on.
type InteractiveAction struct {
	Button   string              `json:"button,omitempty"`
	Buttons  []InteractiveButton `json:"buttons,omitempty"`
	Sections []ListSection       `json:"sections,omitempty"`
}

// InteractiveButton is a single reply button.
type InteractiveButton struct {
	Type  string      `json:"type"`
	Reply ButtonReply `json:"reply"`
}

// ButtonReply identifies a reply button by id and visible title.
type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListSection groups rows in a list message.
type ListSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []ListRow `json:"rows"`
}

// ListRow is one selectable row in a list message.
type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Template references a pre-approved message template.
type Template struct {
	Name       string                       `json:"name"`
	Language   TemplateLanguage             `json:"language"`
	Components []TemplateParameterComponent `json:"components,omitempty"`
}

// TemplateLanguage selects the template translation. Policy defaults to
// deterministic when omitted.
type TemplateLanguage struct {
	Code   string         `json:"code"`
	Policy LanguagePolicy `json:"policy,omitempty"`
}

// TemplateParameterComponent fills one template component with parameters.
type TemplateParameterComponent struct {
	Type       string              `json:"type"`
	SubType    string              `json:"sub_type,omitempty"`
	Index      *int                `json:"index,omitempty"`
	Parameters []TemplateParameter `json:"parameters,omitempty"`
}

// TemplateParameter is a single template placeholder value.
type TemplateParameter struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Payload  string    `json:"payload,omitempty"`
	Currency *Currency `json:"currency,omitempty"`
	DateTime *DateTime `json:"date_time,omitempty"`
	Image    *MediaRef `json:"image,omitempty"`
	Video    *MediaRef `json:"video,omitempty"`
	Document *MediaRef `json:"document,omitempty"`
}

// Currency is a localised amount for template parameters.
type Currency struct {
	FallbackValue string `json:"fallback_value"`
	Code          string `json:"code"`
	Amount1000    int64  `json:"amount_1000"`
}

// DateTime is a localised timestamp for template parameters.
type DateTime struct {
	FallbackValue string `json:"fallback_value"`
}

func (m *Message) applyDefaults() {
	if m.MessagingProduct == "" {
		m.MessagingProduct = MessagingProduct
	}
	if m.RecipientType == "" {
		m.RecipientType = "individual"
	}
	if m.Type == "" {
		m.Type = m.inferType()
	}
	if m.Template != nil && m.Template.Language.Policy == "" {
		m.Template.Language.Policy = LanguagePolicyDeterministic
	}
}

func (m *Message) inferType() MessageType {
	switch {
	case m.Text != nil:
		return MessageTypeText
	case m.Image != nil:
		return MessageTypeImage
	case m.Audio != nil:
		return MessageTypeAudio
	case m.Video != nil:
		return MessageTypeVideo
	case m.Document != nil:
		return MessageTypeDocument
	case m.Sticker != nil:
		return MessageTypeSticker
	case m.Location != nil:
		return MessageTypeLocation
	case len(m.Contacts) > 0:
		return MessageTypeContacts
	case m.Reaction != nil:
		return MessageTypeReaction
	case m.Interactive != nil:
		return MessageTypeInteractive
	case m.Template != nil:
		return MessageTypeTemplate
	}
	return ""
}

func (m *Message) validate() error {
	if m.MessagingProduct != MessagingProduct {
		return newValidationError("messaging_product", "must be %q", MessagingProduct)
	}
	if strings.TrimSpace(m.To) == "" {
		return newValidationError("to", "value is required")
	}
	if m.Context != nil && strings.TrimSpace(m.Context.MessageID) == "" {
		return newValidationError("context.message_id", "value is required")
	}

	switch m.Type {
	case MessageTypeText:
		if m.Text == nil {
			return newValidationError("text", "value is required for type text")
		}
		if m.Text.Body == "" {
			return newValidationError("text.body", "value is required")
		}
		if utf8.RuneCountInString(m.Text.Body) > maxTextBodyLength {
			return newValidationError("text.body", "exceeds maximum length of %d characters", maxTextBodyLength)
		}
	case MessageTypeImage:
		return validateMediaContent("image", m.Image)
	case MessageTypeAudio:
		return validateMediaContent("audio", m.Audio)
	case MessageTypeVideo:
		return validateMediaContent("video", m.Video)
	case MessageTypeDocument:
		return validateMediaContent("document", m.Document)
	case MessageTypeSticker:
		return validateMediaContent("sticker", m.Sticker)
	case MessageTypeLocation:
		if m.Location == nil {
			return newValidationError("location", "value is required for type location")
		}
		return m.Location.validate()
	case MessageTypeContacts:
		if len(m.Contacts) == 0 {
			return newValidationError("contacts", "at least one contact is required")
		}
		for i, card := range m.Contacts {
			if strings.TrimSpace(card.Name.FormattedName) == "" {
				return newValidationError("contacts.name.formatted_name", "value is required for contact %d", i)
			}
		}
	case MessageTypeReaction:
		if m.Reaction == nil {
			return newValidationError("reaction", "value is required for type reaction")
		}
		if strings.TrimSpace(m.Reaction.MessageID) == "" {
			return newValidationError("reaction.message_id", "value is required")
		}
	case MessageTypeInteractive:
		return m.validateInteractive()
	case MessageTypeTemplate:
		return m.validateTemplate()
	default:
		return newValidationError("type", "unsupported message type %q", string(m.Type))
	}
	return nil
}

func validateMediaContent(field string, ref *MediaRef) error {
	if ref == nil {
		return newValidationError(field, "value is required for type %s", field)
	}
	return ref.validate(field)
}

func (m *Message) validateInteractive() error {
	in := m.Interactive
	if in == nil {
		return newValidationError("interactive", "value is required for type interactive")
	}
	switch in.Type {
	case InteractiveTypeButton, InteractiveTypeList:
	default:
		return newValidationError("interactive.type", "unsupported interactive type %q", string(in.Type))
	}
	if in.Body == nil || strings.TrimSpace(in.Body.Text) == "" {
		return newValidationError("interactive.body.text", "value is required")
	}
	if in.Action == nil {
		return newValidationError("interactive.action", "value is required")
	}
	if in.Type == InteractiveTypeButton && len(in.Action.Buttons) == 0 {
		return newValidationError("interactive.action.buttons", "at least one button is required")
	}
	if in.Type == InteractiveTypeList && len(in.Action.Sections) == 0 {
		return newValidationError("interactive.action.sections", "at least one section is required")
	}
	return nil
}

func (m *Message) validateTemplate() error {
	tpl := m.Template
	if tpl == nil {
		return newValidationError("template", "value is required for type template")
	}
	if strings.TrimSpace(tpl.Name) == "" {
		return newValidationError("template.name", "value is required")
	}
	if strings.TrimSpace(tpl.Language.Code) == "" {
		return newValidationError("template.language.code", "value is required")
	}
	if tpl.Language.Policy != LanguagePolicyDeterministic {
		return newValidationError("template.language.policy", "unsupported policy %q", string(tpl.Language.Policy))
	}
	return nil
}

// SendMessageResponse is the acknowledgement returned after sending a
// message.
type SendMessageResponse struct {
	MessagingProduct string            `json:"messaging_product"`
	Contacts         []ResponseContact `json:"contacts"`
	Messages         []MessageID       `json:"messages"`
}

// ResponseContact echoes the addressed recipient and its canonical wa_id.
type ResponseContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

// MessageID wraps the id assigned to an accepted message.
type MessageID struct {
	ID string `json:"id"`
}

func (r *SendMessageResponse) validate() error {
	if len(r.Messages) == 0 {
		return newValidationError("messages", "at least one message id is expected")
	}
	for i, msg := range r.Messages {
		if msg.ID == "" {
			return newValidationError("messages.id", "empty id at index %d", i)
		}
	}
	return nil
}

// MessageService sends outbound messages through the shared transport.
type MessageService struct {
	t   *transport
	cfg Config
}

// Send validates the message, applies defaults, and posts it to the
// phone-number-scoped messages endpoint. Validation failures never reach the
// network.
func (s *MessageService) Send(ctx context.Context, msg *Message) (*SendMessageResponse, error) {
	if msg == nil {
		return nil, newValidationError("message", "value is required")
	}
	msg.applyDefaults()
	if err := msg.validate(); err != nil {
		return nil, err
	}

	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/messages", requestOptions{
		method: http.MethodPost,
		body:   msg,
	})
	if err != nil {
		return nil, err
	}

	var out SendMessageResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendText is a convenience wrapper for plain text messages.
func (s *MessageService) SendText(ctx context.Context, to, body string) (*SendMessageResponse, error) {
	return s.Send(ctx, &Message{To: to, Text: &Text{Body: body}})
}

// SendTemplate is a convenience wrapper for template messages. The language
// policy defaults to deterministic.
func (s *MessageService) SendTemplate(ctx context.Context, to, name, languageCode string, components ...TemplateParameterComponent) (*SendMessageResponse, error) {
	return s.Send(ctx, &Message{
		To: to,
		Template: &Template{
			Name:       name,
			Language:   TemplateLanguage{Code: languageCode},
			Components: components,
		},
	})
}

// SendLocation is a convenience wrapper for location messages.
func (s *MessageService) SendLocation(ctx context.Context, to string, latitude, longitude float64, name, address string) (*SendMessageResponse, error) {
	return s.Send(ctx, &Message{
		To: to,
		Location: &Location{
			Latitude:  latitude,
			Longitude: longitude,
			Name:      name,
			Address:   address,
		},
	})
}

// MarkRead flags an inbound message as read.
func (s *MessageService) MarkRead(ctx context.Context, messageID string) (*SuccessResponse, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, newValidationError("message_id", "value is required")
	}

	payload := map[string]string{
		"messaging_product": MessagingProduct,
		"status":            "read",
		"message_id":        messageID,
	}
	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/messages", requestOptions{
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

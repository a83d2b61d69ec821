package webhook

import "encoding/json"

// MessagesValue is the change value for the messages field: inbound messages,
// delivery statuses, or channel-level errors, together with the receiving
// phone number's metadata.
type MessagesValue struct {
	MessagingProduct string        `json:"messaging_product"`
	Metadata         Metadata      `json:"metadata"`
	Contacts         []Contact     `json:"contacts,omitempty"`
	Messages         []Message     `json:"messages,omitempty"`
	Statuses         []Status      `json:"statuses,omitempty"`
	Errors           []ErrorDetail `json:"errors,omitempty"`
}

// Metadata identifies the receiving phone number.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is the WhatsApp user a message or status refers to.
type Contact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

// ContactProfile carries the user's display name.
type ContactProfile struct {
	Name string `json:"name"`
}

// Message is one inbound message. Exactly one content field matching Type is
// populated by the platform.
type Message struct {
	From      string          `json:"from"`
	ID        string          `json:"id"`
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	Context   *MessageContext `json:"context,omitempty"`

	Text        *Text             `json:"text,omitempty"`
	Image       *Media            `json:"image,omitempty"`
	Audio       *Media            `json:"audio,omitempty"`
	Video       *Media            `json:"video,omitempty"`
	Document    *Media            `json:"document,omitempty"`
	Sticker     *Media            `json:"sticker,omitempty"`
	Location    *Location         `json:"location,omitempty"`
	Contacts    []SharedContact   `json:"contacts,omitempty"`
	Reaction    *Reaction         `json:"reaction,omitempty"`
	Button      *Button           `json:"button,omitempty"`
	Interactive *InteractiveReply `json:"interactive,omitempty"`
	Errors      []ErrorDetail     `json:"errors,omitempty"`
	Referral    *Referral         `json:"referral,omitempty"`
}

// MessageContext links a message to the one it replies to or forwards.
type MessageContext struct {
	From      string `json:"from,omitempty"`
	ID        string `json:"id,omitempty"`
	Forwarded bool   `json:"forwarded,omitempty"`
}

// Text is an inbound text body.
type Text struct {
	Body string `json:"body"`
}

// Media is inbound media referenced by id.
type Media struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

// Location is an inbound location share.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// SharedContact is one contact card shared in a contacts message.
type SharedContact struct {
	Name   SharedContactName    `json:"name"`
	Phones []SharedContactPhone `json:"phones,omitempty"`
}

// SharedContactName mirrors the name block on a shared contact card.
type SharedContactName struct {
	FormattedName string `json:"formatted_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
}

// SharedContactPhone is one phone entry on a shared contact card.
type SharedContactPhone struct {
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type,omitempty"`
	WaID  string `json:"wa_id,omitempty"`
}

// Reaction is an inbound emoji reaction.
type Reaction struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji,omitempty"`
}

// Button is a template quick-reply button press.
type Button struct {
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

// InteractiveReply is the user's answer to an interactive message.
type InteractiveReply struct {
	Type        string       `json:"type"`
	ButtonReply *ButtonReply `json:"button_reply,omitempty"`
	ListReply   *ListReply   `json:"list_reply,omitempty"`
}

// ButtonReply identifies the pressed reply button.
type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListReply identifies the selected list row.
type ListReply struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Referral describes the ad or post that led the user into the conversation.
type Referral struct {
	SourceURL  string `json:"source_url,omitempty"`
	SourceID   string `json:"source_id,omitempty"`
	SourceType string `json:"source_type,omitempty"`
	Headline   string `json:"headline,omitempty"`
	Body       string `json:"body,omitempty"`
}

// Status is a delivery lifecycle update for an outbound message.
type Status struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Timestamp    string        `json:"timestamp"`
	RecipientID  string        `json:"recipient_id"`
	Conversation *Conversation `json:"conversation,omitempty"`
	Pricing      *Pricing      `json:"pricing,omitempty"`
	Errors       []ErrorDetail `json:"errors,omitempty"`
}

// Message status values carried on Status.Status.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
	StatusDeleted   = "deleted"
)

// Conversation identifies the billing conversation a status belongs to.
type Conversation struct {
	ID                  string              `json:"id"`
	Origin              *ConversationOrigin `json:"origin,omitempty"`
	ExpirationTimestamp string              `json:"expiration_timestamp,omitempty"`
}

// ConversationOrigin carries the conversation category.
type ConversationOrigin struct {
	Type string `json:"type"`
}

// Pricing describes how a conversation is billed.
type Pricing struct {
	Billable     bool   `json:"billable,omitempty"`
	Category     string `json:"category,omitempty"`
	PricingModel string `json:"pricing_model,omitempty"`
}

// ErrorDetail is a platform error attached to a message, status or change.
type ErrorDetail struct {
	Code      int        `json:"code"`
	Title     string     `json:"title,omitempty"`
	Message   string     `json:"message,omitempty"`
	ErrorData *ErrorData `json:"error_data,omitempty"`
}

// ErrorData carries the free-form error details blob.
type ErrorData struct {
	Details string `json:"details,omitempty"`
}

// TemplateStatusValue is the change value for template review decisions
// (approved, rejected, paused, disabled).
type TemplateStatusValue struct {
	Event                   string       `json:"event"`
	MessageTemplateID       int64        `json:"message_template_id"`
	MessageTemplateName     string       `json:"message_template_name"`
	MessageTemplateLanguage string       `json:"message_template_language"`
	Reason                  string       `json:"reason,omitempty"`
	DisableInfo             *DisableInfo `json:"disable_info,omitempty"`
}

// DisableInfo carries the scheduled disable date on paused templates.
type DisableInfo struct {
	DisableDate string `json:"disable_date,omitempty"`
}

// TemplateQualityValue is the change value for template quality score
// transitions.
type TemplateQualityValue struct {
	PreviousQualityScore    string `json:"previous_quality_score"`
	NewQualityScore         string `json:"new_quality_score"`
	MessageTemplateID       int64  `json:"message_template_id"`
	MessageTemplateName     string `json:"message_template_name"`
	MessageTemplateLanguage string `json:"message_template_language"`
}

// TemplateComponentsValue is the change value emitted when a template's
// components are edited.
type TemplateComponentsValue struct {
	MessageTemplateID       int64  `json:"message_template_id"`
	MessageTemplateName     string `json:"message_template_name"`
	MessageTemplateLanguage string `json:"message_template_language"`
	MessageTemplateTitle    string `json:"message_template_title,omitempty"`
	MessageTemplateElement  string `json:"message_template_element,omitempty"`
	MessageTemplateFooter   string `json:"message_template_footer,omitempty"`
}

// UnknownValue preserves the raw value of a change whose field discriminator
// this package does not model yet.
type UnknownValue struct {
	Field string
	Raw   json.RawMessage
}

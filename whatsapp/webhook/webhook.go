// Package webhook parses the payloads the WhatsApp Business Platform pushes
// to a registered webhook endpoint. The shapes here are a closed, versioned
// contract with the platform: this package only validates and types inbound
// data, it never produces it.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ObjectWhatsAppBusinessAccount is the only envelope object this package
// accepts.
const ObjectWhatsAppBusinessAccount = "whatsapp_business_account"

// Change field discriminators with dedicated value shapes. Any other
// discriminator decodes into UnknownValue so new platform event types do not
// break parsing.
const (
	FieldMessages                 = "messages"
	FieldTemplateStatusUpdate     = "message_template_status_update"
	FieldTemplateQualityUpdate    = "message_template_quality_update"
	FieldTemplateComponentsUpdate = "message_template_components_update"
)

// ErrInvalidPayload tags payloads that do not match the webhook envelope.
var ErrInvalidPayload = errors.New("webhook: invalid payload")

// Payload is the top-level webhook delivery envelope.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one business account entry inside a delivery.
type Entry struct {
	ID      string   `json:"id"`
	Time    int64    `json:"time,omitempty"`
	Changes []Change `json:"changes"`
}

// Change is one notification, tagged by its field discriminator. Value holds
// the decoded shape for known discriminators and an UnknownValue otherwise.
type Change struct {
	Field string
	Value Value
}

// Value is the discriminated union of change value shapes.
type Value interface {
	isValue()
}

func (*MessagesValue) isValue()           {}
func (*TemplateStatusValue) isValue()     {}
func (*TemplateQualityValue) isValue()    {}
func (*TemplateComponentsValue) isValue() {}
func (*UnknownValue) isValue()            {}

// UnmarshalJSON decodes the change value according to its field
// discriminator. Unrecognized discriminators are preserved as UnknownValue
// rather than rejected, since the platform adds event types over time.
func (c *Change) UnmarshalJSON(data []byte) error {
	var raw struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: decode change: %v", ErrInvalidPayload, err)
	}
	if raw.Field == "" {
		return fmt.Errorf("%w: change is missing the field discriminator", ErrInvalidPayload)
	}

	c.Field = raw.Field
	switch raw.Field {
	case FieldMessages:
		value := &MessagesValue{}
		if err := json.Unmarshal(raw.Value, value); err != nil {
			return fmt.Errorf("%w: decode %s value: %v", ErrInvalidPayload, raw.Field, err)
		}
		c.Value = value
	case FieldTemplateStatusUpdate:
		value := &TemplateStatusValue{}
		if err := json.Unmarshal(raw.Value, value); err != nil {
			return fmt.Errorf("%w: decode %s value: %v", ErrInvalidPayload, raw.Field, err)
		}
		c.Value = value
	case FieldTemplateQualityUpdate:
		value := &TemplateQualityValue{}
		if err := json.Unmarshal(raw.Value, value); err != nil {
			return fmt.Errorf("%w: decode %s value: %v", ErrInvalidPayload, raw.Field, err)
		}
		c.Value = value
	case FieldTemplateComponentsUpdate:
		value := &TemplateComponentsValue{}
		if err := json.Unmarshal(raw.Value, value); err != nil {
			return fmt.Errorf("%w: decode %s value: %v", ErrInvalidPayload, raw.Field, err)
		}
		c.Value = value
	default:
		c.Value = &UnknownValue{Field: raw.Field, Raw: append(json.RawMessage(nil), raw.Value...)}
	}
	return nil
}

// MarshalJSON re-encodes the change in its wire shape.
func (c Change) MarshalJSON() ([]byte, error) {
	var value any = c.Value
	if unknown, ok := c.Value.(*UnknownValue); ok {
		value = unknown.Raw
	}
	return json.Marshal(struct {
		Field string `json:"field"`
		Value any    `json:"value"`
	}{Field: c.Field, Value: value})
}

// ParsePayload decodes and validates a webhook delivery body.
func ParsePayload(data []byte) (*Payload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrInvalidPayload)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		if errors.Is(err, ErrInvalidPayload) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: decode body: %v", ErrInvalidPayload, err)
	}
	if payload.Object != ObjectWhatsAppBusinessAccount {
		return nil, fmt.Errorf("%w: unexpected object %q", ErrInvalidPayload, payload.Object)
	}
	for i, entry := range payload.Entry {
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: entry %d is missing its account id", ErrInvalidPayload, i)
		}
	}
	return &payload, nil
}

// Package bridge turns WhatsApp webhook deliveries into Kafka events. It
// verifies the platform handshake, parses each delivery with the webhook
// package and fans the changes out one event per message, status or template
// notification.
package bridge

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event kinds carried on Event.Kind.
const (
	KindMessage            = "message"
	KindStatus             = "status"
	KindChannelError       = "channel_error"
	KindTemplateStatus     = "template_status"
	KindTemplateQuality    = "template_quality"
	KindTemplateComponents = "template_components"
)

// Event is one webhook notification flattened for downstream consumers. A
// single HTTP delivery can produce many events.
type Event struct {
	EventID           string          `json:"event_id"`
	Kind              string          `json:"kind"`
	BusinessAccountID string          `json:"business_account_id"`
	PhoneNumberID     string          `json:"phone_number_id,omitempty"`
	MessageID         string          `json:"message_id,omitempty"`
	ReceivedAt        time.Time       `json:"received_at"`
	Payload           json.RawMessage `json:"payload"`
}

// DLQRecord captures a delivery, or part of one, that could not be turned
// into events. Body holds the raw delivery bytes and is not required to be
// JSON, so it rides as base64 on the wire.
type DLQRecord struct {
	RecordID   string    `json:"record_id"`
	Reason     string    `json:"reason"`
	Field      string    `json:"field,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
	Body       []byte    `json:"body"`
}

// newEvent stamps identity and receipt time onto an event.
func newEvent(kind, accountID, phoneNumberID, messageID string, receivedAt time.Time, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		EventID:           uuid.NewString(),
		Kind:              kind,
		BusinessAccountID: accountID,
		PhoneNumberID:     phoneNumberID,
		MessageID:         messageID,
		ReceivedAt:        receivedAt,
		Payload:           raw,
	}, nil
}

// newDLQRecord stamps identity and receipt time onto a DLQ record.
func newDLQRecord(reason, field string, receivedAt time.Time, body []byte) DLQRecord {
	return DLQRecord{
		RecordID:   uuid.NewString(),
		Reason:     reason,
		Field:      field,
		ReceivedAt: receivedAt,
		Body:       append([]byte(nil), body...),
	}
}

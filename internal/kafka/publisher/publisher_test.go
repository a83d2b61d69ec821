package publisher_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/whatsapp-cloud/internal/bridge"
	"github.com/example/whatsapp-cloud/internal/kafka/publisher"
)

type fakeProducer struct {
	topic   string
	key     []byte
	headers map[string][]byte
	payload []byte
	err     error
}

func (f *fakeProducer) PublishSync(topic string, key []byte, headers map[string][]byte, payload []byte) error {
	f.topic = topic
	f.key = key
	f.headers = headers
	f.payload = payload
	return f.err
}

func TestPublishEvent(t *testing.T) {
	prod := &fakeProducer{}
	pub := publisher.NewEventPublisher(prod, "whatsapp.webhook.events", zerolog.Nop())

	event := bridge.Event{
		EventID:           "evt-1",
		Kind:              bridge.KindMessage,
		BusinessAccountID: "waba-1",
		PhoneNumberID:     "phone-1",
		MessageID:         "wamid.ONE",
		ReceivedAt:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Payload:           json.RawMessage(`{"type":"text"}`),
	}
	if err := pub.PublishEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prod.topic != "whatsapp.webhook.events" {
		t.Fatalf("unexpected topic: %q", prod.topic)
	}
	if string(prod.key) != "wamid.ONE" {
		t.Fatalf("expected message id as partition key, got %q", prod.key)
	}
	if string(prod.headers["content-type"]) != "application/json" {
		t.Fatalf("expected content-type header, got %v", prod.headers)
	}

	var decoded bridge.Event
	if err := json.Unmarshal(prod.payload, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.EventID != "evt-1" || decoded.Kind != bridge.KindMessage {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestPublishEventFallsBackToEventID(t *testing.T) {
	prod := &fakeProducer{}
	pub := publisher.NewEventPublisher(prod, "topic", zerolog.Nop())

	event := bridge.Event{EventID: "evt-2", Kind: bridge.KindTemplateStatus, Payload: json.RawMessage(`{}`)}
	if err := pub.PublishEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(prod.key) != "evt-2" {
		t.Fatalf("expected event id key fallback, got %q", prod.key)
	}
}

func TestPublishEventWrapsProducerError(t *testing.T) {
	cause := errors.New("broker down")
	pub := publisher.NewEventPublisher(&fakeProducer{err: cause}, "topic", zerolog.Nop())

	err := pub.PublishEvent(context.Background(), bridge.Event{EventID: "evt", Payload: json.RawMessage(`{}`)})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped producer error, got %v", err)
	}
}

func TestPublishDLQ(t *testing.T) {
	prod := &fakeProducer{}
	pub := publisher.NewDLQPublisher(prod, "whatsapp.webhook.dlq", zerolog.Nop())

	record := bridge.DLQRecord{
		RecordID: "rec-1",
		Reason:   "unhandled change field",
		Field:    "account_alerts",
		Body:     []byte(`{"alert_severity":"WARNING"}`),
	}
	if err := pub.PublishDLQ(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prod.topic != "whatsapp.webhook.dlq" || string(prod.key) != "rec-1" {
		t.Fatalf("unexpected routing: %q %q", prod.topic, prod.key)
	}
}

func TestPublishDLQCarriesNonJSONBody(t *testing.T) {
	prod := &fakeProducer{}
	pub := publisher.NewDLQPublisher(prod, "whatsapp.webhook.dlq", zerolog.Nop())

	record := bridge.DLQRecord{
		RecordID: "rec-2",
		Reason:   "webhook: invalid payload",
		Body:     []byte("<xml/>"),
	}
	if err := pub.PublishDLQ(context.Background(), record); err != nil {
		t.Fatalf("non-JSON bodies must still publish, got %v", err)
	}

	var decoded bridge.DLQRecord
	if err := json.Unmarshal(prod.payload, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if string(decoded.Body) != "<xml/>" {
		t.Fatalf("expected body round trip, got %q", decoded.Body)
	}
}

func TestNilProducerRejected(t *testing.T) {
	if pub := publisher.NewEventPublisher(nil, "topic", zerolog.Nop()); pub != nil {
		t.Fatalf("expected nil publisher for nil producer")
	}
	if pub := publisher.NewDLQPublisher(nil, "topic", zerolog.Nop()); pub != nil {
		t.Fatalf("expected nil publisher for nil producer")
	}

	var pub *publisher.EventPublisher
	err := pub.PublishEvent(context.Background(), bridge.Event{})
	if !errors.Is(err, publisher.ErrProducerNotInitialised()) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

package webhook_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/example/whatsapp-cloud/whatsapp/webhook"
)

const textMessageDelivery = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "102290129340398",
    "time": 1700000000,
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "15550001111", "phone_number_id": "106540352242922"},
        "contacts": [{"profile": {"name": "Kerry Fisher"}, "wa_id": "16315551234"}],
        "messages": [{
          "from": "16315551234",
          "id": "wamid.ABGGFlA5Fpa",
          "timestamp": "1700000001",
          "type": "text",
          "text": {"body": "Hello there"}
        }]
      }
    }]
  }]
}`

func TestParseTextMessageDelivery(t *testing.T) {
	payload, err := webhook.ParsePayload([]byte(textMessageDelivery))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Object != webhook.ObjectWhatsAppBusinessAccount {
		t.Fatalf("unexpected object: %q", payload.Object)
	}
	if len(payload.Entry) != 1 || payload.Entry[0].ID != "102290129340398" {
		t.Fatalf("unexpected entry: %+v", payload.Entry)
	}

	change := payload.Entry[0].Changes[0]
	if change.Field != webhook.FieldMessages {
		t.Fatalf("unexpected field: %q", change.Field)
	}
	value, ok := change.Value.(*webhook.MessagesValue)
	if !ok {
		t.Fatalf("expected MessagesValue, got %T", change.Value)
	}
	if value.Metadata.PhoneNumberID != "106540352242922" {
		t.Fatalf("unexpected metadata: %+v", value.Metadata)
	}
	if len(value.Contacts) != 1 || value.Contacts[0].Profile.Name != "Kerry Fisher" {
		t.Fatalf("unexpected contacts: %+v", value.Contacts)
	}
	msg := value.Messages[0]
	if msg.Type != "text" || msg.Text == nil || msg.Text.Body != "Hello there" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestParseStatusDelivery(t *testing.T) {
	body := `{
	  "object": "whatsapp_business_account",
	  "entry": [{
	    "id": "102290129340398",
	    "changes": [{
	      "field": "messages",
	      "value": {
	        "messaging_product": "whatsapp",
	        "metadata": {"display_phone_number": "15550001111", "phone_number_id": "106540352242922"},
	        "statuses": [{
	          "id": "wamid.OUT",
	          "status": "delivered",
	          "timestamp": "1700000002",
	          "recipient_id": "16315551234",
	          "conversation": {"id": "conv-1", "origin": {"type": "service"}},
	          "pricing": {"billable": true, "category": "service", "pricing_model": "CBP"}
	        }]
	      }
	    }]
	  }]
	}`

	payload, err := webhook.ParsePayload([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value := payload.Entry[0].Changes[0].Value.(*webhook.MessagesValue)
	status := value.Statuses[0]
	if status.Status != webhook.StatusDelivered || status.RecipientID != "16315551234" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.Conversation == nil || status.Conversation.Origin.Type != "service" {
		t.Fatalf("unexpected conversation: %+v", status.Conversation)
	}
	if status.Pricing == nil || !status.Pricing.Billable {
		t.Fatalf("unexpected pricing: %+v", status.Pricing)
	}
}

func TestParseTemplateStatusUpdate(t *testing.T) {
	body := `{
	  "object": "whatsapp_business_account",
	  "entry": [{
	    "id": "102290129340398",
	    "changes": [{
	      "field": "message_template_status_update",
	      "value": {
	        "event": "REJECTED",
	        "message_template_id": 1234567890,
	        "message_template_name": "order_update",
	        "message_template_language": "en_US",
	        "reason": "INVALID_FORMAT"
	      }
	    }]
	  }]
	}`

	payload, err := webhook.ParsePayload([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, ok := payload.Entry[0].Changes[0].Value.(*webhook.TemplateStatusValue)
	if !ok {
		t.Fatalf("expected TemplateStatusValue, got %T", payload.Entry[0].Changes[0].Value)
	}
	if value.Event != "REJECTED" || value.MessageTemplateID != 1234567890 || value.Reason != "INVALID_FORMAT" {
		t.Fatalf("unexpected value: %+v", value)
	}
}

func TestUnknownFieldIsPreserved(t *testing.T) {
	body := `{
	  "object": "whatsapp_business_account",
	  "entry": [{
	    "id": "102290129340398",
	    "changes": [{
	      "field": "account_alerts",
	      "value": {"alert_severity": "WARNING"}
	    }]
	  }]
	}`

	payload, err := webhook.ParsePayload([]byte(body))
	if err != nil {
		t.Fatalf("unknown fields must not fail parsing: %v", err)
	}
	change := payload.Entry[0].Changes[0]
	if change.Field != "account_alerts" {
		t.Fatalf("unexpected field: %q", change.Field)
	}
	unknown, ok := change.Value.(*webhook.UnknownValue)
	if !ok {
		t.Fatalf("expected UnknownValue, got %T", change.Value)
	}
	var raw map[string]string
	if err := json.Unmarshal(unknown.Raw, &raw); err != nil {
		t.Fatalf("raw value must stay decodable: %v", err)
	}
	if raw["alert_severity"] != "WARNING" {
		t.Fatalf("unexpected raw value: %v", raw)
	}
}

func TestParseRejectsInvalidPayloads(t *testing.T) {
	cases := map[string]string{
		"empty body":       "",
		"not json":         "<xml/>",
		"wrong object":     `{"object":"page","entry":[]}`,
		"entry without id": `{"object":"whatsapp_business_account","entry":[{"changes":[]}]}`,
		"change without field": `{"object":"whatsapp_business_account","entry":[{
			"id":"1","changes":[{"value":{}}]}]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := webhook.ParsePayload([]byte(body))
			if !errors.Is(err, webhook.ErrInvalidPayload) {
				t.Fatalf("expected ErrInvalidPayload, got %v", err)
			}
		})
	}
}

func TestChangeRoundTrip(t *testing.T) {
	payload, err := webhook.ParsePayload([]byte(textMessageDelivery))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	encoded, err := json.Marshal(payload.Entry[0].Changes[0])
	if err != nil {
		t.Fatalf("marshal change: %v", err)
	}

	var again webhook.Change
	if err := json.Unmarshal(encoded, &again); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	value, ok := again.Value.(*webhook.MessagesValue)
	if !ok {
		t.Fatalf("expected MessagesValue after round trip, got %T", again.Value)
	}
	if value.Messages[0].Text.Body != "Hello there" {
		t.Fatalf("round trip lost message content: %+v", value.Messages[0])
	}
}

func TestInteractiveReplyMessage(t *testing.T) {
	body := `{
	  "object": "whatsapp_business_account",
	  "entry": [{
	    "id": "102290129340398",
	    "changes": [{
	      "field": "messages",
	      "value": {
	        "messaging_product": "whatsapp",
	        "metadata": {"display_phone_number": "15550001111", "phone_number_id": "106540352242922"},
	        "messages": [{
	          "from": "16315551234",
	          "id": "wamid.REPLY",
	          "timestamp": "1700000003",
	          "type": "interactive",
	          "interactive": {"type": "button_reply", "button_reply": {"id": "confirm", "title": "Confirm"}}
	        }]
	      }
	    }]
	  }]
	}`

	payload, err := webhook.ParsePayload([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := payload.Entry[0].Changes[0].Value.(*webhook.MessagesValue).Messages[0]
	if msg.Interactive == nil || msg.Interactive.ButtonReply == nil {
		t.Fatalf("expected button reply, got %+v", msg.Interactive)
	}
	if msg.Interactive.ButtonReply.ID != "confirm" {
		t.Fatalf("unexpected reply id: %q", msg.Interactive.ButtonReply.ID)
	}
}

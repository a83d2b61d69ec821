package whatsapp_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/example/whatsapp-cloud/whatsapp"
)

func TestPINValidationBlocksNetwork(t *testing.T) {
	badPINs := []string{"", "12345", "1234567", "12345a", "12 456"}

	for _, pin := range badPINs {
		stub := &stubHTTP{}
		client := newTestClient(t, stub)

		if _, err := client.Registration.Register(context.Background(), pin); err == nil {
			t.Fatalf("expected error for pin %q on register", pin)
		}
		if _, err := client.TwoStep.SetPIN(context.Background(), pin); err == nil {
			t.Fatalf("expected error for pin %q on set pin", pin)
		}
		if len(stub.calls) != 0 {
			t.Fatalf("pin %q must not reach the network, saw %d calls", pin, len(stub.calls))
		}
	}
}

func TestRegister(t *testing.T) {
	stub := &stubHTTP{}
	client := newTestClient(t, stub)

	resp, err := client.Registration.Register(context.Background(), "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success acknowledgement")
	}

	call := stub.calls[0]
	if !strings.HasSuffix(call.url, "/"+testPhoneID+"/register") {
		t.Fatalf("expected register path, got %q", call.url)
	}

	var sent map[string]string
	if err := json.Unmarshal(call.body, &sent); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if sent["messaging_product"] != "whatsapp" || sent["pin"] != "123456" {
		t.Fatalf("unexpected register payload: %v", sent)
	}
}

func TestDeregister(t *testing.T) {
	stub := &stubHTTP{}
	client := newTestClient(t, stub)

	if _, err := client.Registration.Deregister(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(stub.calls[0].url, "/"+testPhoneID+"/deregister") {
		t.Fatalf("expected deregister path, got %q", stub.calls[0].url)
	}
}

func TestSetPIN(t *testing.T) {
	stub := &stubHTTP{}
	client := newTestClient(t, stub)

	if _, err := client.TwoStep.SetPIN(context.Background(), "654321"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := stub.calls[0]
	if !strings.HasSuffix(call.url, "/"+whatsapp.DefaultAPIVersion+"/"+testPhoneID) {
		t.Fatalf("expected phone number path, got %q", call.url)
	}

	var sent map[string]string
	if err := json.Unmarshal(call.body, &sent); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if sent["pin"] != "654321" {
		t.Fatalf("unexpected pin payload: %v", sent)
	}
	if _, ok := sent["messaging_product"]; ok {
		t.Fatalf("two-step pin payload must not carry messaging_product")
	}
}

func TestPINErrorsAreValidationErrors(t *testing.T) {
	client := newTestClient(t, &stubHTTP{})

	_, err := client.TwoStep.SetPIN(context.Background(), "abc")
	var verr *whatsapp.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "pin" {
		t.Fatalf("expected pin field, got %q", verr.Field)
	}
}

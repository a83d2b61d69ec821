package whatsapp_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/example/whatsapp-cloud/whatsapp"
)

func TestRequestURLAndAuthorization(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{
		jsonResponse(http.StatusOK, `{"id":"123","display_phone_number":"+1 555 000 1111","verified_name":"Test"}`),
	}}
	client := newTestClient(t, stub)

	if _, err := client.PhoneNumbers.Get(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.calls) != 1 {
		t.Fatalf("expected one HTTP call, got %d", len(stub.calls))
	}
	call := stub.calls[0]
	wantURL := whatsapp.DefaultBaseURL + "/" + whatsapp.DefaultAPIVersion + "/" + testPhoneID
	if call.url != wantURL {
		t.Fatalf("expected URL %q, got %q", wantURL, call.url)
	}
	if got := call.header.Get("Authorization"); got != "Bearer "+testToken {
		t.Fatalf("expected bearer header, got %q", got)
	}
	if call.method != http.MethodGet {
		t.Fatalf("expected GET, got %s", call.method)
	}
}

func TestJSONBodiesCarryContentType(t *testing.T) {
	stub := &stubHTTP{}
	client := newTestClient(t, stub)

	if _, err := client.Registration.Deregister(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := stub.calls[0]
	if got := call.header.Get("Content-Type"); got != "" {
		t.Fatalf("bodyless request must not carry a content type, got %q", got)
	}

	stub.calls = nil
	if _, err := client.Messages.MarkRead(context.Background(), "wamid.test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call = stub.calls[0]
	if got := call.header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected application/json content type, got %q", got)
	}
}

func TestAPIErrorEnvelopeIsClassified(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{
		jsonResponse(http.StatusUnauthorized, `{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190,"error_subcode":463,"fbtrace_id":"AbCdEf"}}`),
	}}
	client := newTestClient(t, stub)

	_, err := client.PhoneNumbers.Get(context.Background())
	var apiErr *whatsapp.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != 190 || apiErr.Subcode != 463 {
		t.Fatalf("expected code 190 subcode 463, got %d/%d", apiErr.Code, apiErr.Subcode)
	}
	if apiErr.Type != "OAuthException" || apiErr.FBTraceID != "AbCdEf" {
		t.Fatalf("unexpected envelope fields: %+v", apiErr)
	}
}

func TestNonEnvelopeFailureBecomesTransportError(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{
		binaryResponse(http.StatusBadGateway, "text/html", "<html>bad gateway</html>"),
	}}
	client := newTestClient(t, stub)

	_, err := client.PhoneNumbers.Get(context.Background())
	var terr *whatsapp.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", terr.StatusCode)
	}
	if terr.Body == "" {
		t.Fatalf("expected raw body to be retained")
	}
}

func TestJSONFailureWithoutEnvelopeBecomesTransportError(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{
		jsonResponse(http.StatusInternalServerError, `{"status":"error","detail":"oops"}`),
	}}
	client := newTestClient(t, stub)

	_, err := client.PhoneNumbers.Get(context.Background())
	var terr *whatsapp.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", terr.StatusCode)
	}
	if !strings.Contains(terr.Body, `"detail":"oops"`) {
		t.Fatalf("expected raw body retained, got %q", terr.Body)
	}
}

func TestNonJSONSuccessBodyFails(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{
		binaryResponse(http.StatusOK, "text/html", "<html>ok</html>"),
	}}
	client := newTestClient(t, stub)

	_, err := client.PhoneNumbers.Get(context.Background())
	var terr *whatsapp.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 on the transport error, got %d", terr.StatusCode)
	}
}

func TestConnectionFailureWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	stub := &stubHTTP{err: cause}
	client := newTestClient(t, stub)

	_, err := client.PhoneNumbers.Get(context.Background())
	var terr *whatsapp.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected the cause to be reachable via errors.Is")
	}
	if terr.StatusCode != 0 {
		t.Fatalf("expected zero status when no exchange happened, got %d", terr.StatusCode)
	}
}

func TestSingleAttemptPerInvocation(t *testing.T) {
	stub := &stubHTTP{err: errors.New("connection reset")}
	client := newTestClient(t, stub)

	_, _ = client.PhoneNumbers.Get(context.Background())
	if len(stub.calls) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(stub.calls))
	}
}

func TestResponseValidationFailureIsMarked(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{
		jsonResponse(http.StatusOK, `{"messaging_product":"whatsapp","contacts":[],"messages":[]}`),
	}}
	client := newTestClient(t, stub)

	_, err := client.Messages.SendText(context.Background(), "15550002222", "hello")
	var verr *whatsapp.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !verr.Response {
		t.Fatalf("expected a response-side validation error")
	}
}

func TestAcknowledgementWithoutSuccessFails(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{
		jsonResponse(http.StatusOK, `{}`),
	}}
	client := newTestClient(t, stub)

	_, err := client.Registration.Deregister(context.Background())
	var verr *whatsapp.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "success" || !verr.Response {
		t.Fatalf("expected a response-side error on the success field, got %+v", verr)
	}
}

package whatsapp_test

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/whatsapp-cloud/whatsapp"
)

// parseUpload decodes the multipart request captured by the stub and returns
// the part names in order plus the file content.
func parseUpload(t *testing.T, call stubCall) (names []string, fields map[string]string, fileName string, fileContent []byte) {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(call.header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("upload content type is not parseable: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("expected multipart/form-data, got %q", mediaType)
	}

	fields = map[string]string{}
	reader := multipart.NewReader(bytes.NewReader(call.body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err != nil {
			break
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(part); err != nil {
			t.Fatalf("read part %s: %v", part.FormName(), err)
		}
		names = append(names, part.FormName())
		if part.FileName() != "" {
			fileName = part.FileName()
			fileContent = buf.Bytes()
		} else {
			fields[part.FormName()] = buf.String()
		}
	}
	return names, fields, fileName, fileContent
}

func TestUploadFromBytes(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{jsonResponse(http.StatusOK, `{"id":"media-1"}`)}}
	client := newTestClient(t, stub)

	resp, err := client.Media.Upload(context.Background(), whatsapp.BytesSource("photo.jpg", []byte("jpeg-bytes")), "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ID != "media-1" {
		t.Fatalf("expected media id media-1, got %q", resp.ID)
	}

	call := stub.calls[0]
	if !strings.HasSuffix(call.url, "/"+testPhoneID+"/media") {
		t.Fatalf("expected media upload path, got %q", call.url)
	}

	names, fields, fileName, content := parseUpload(t, call)
	want := []string{"messaging_product", "type", "file"}
	if len(names) != len(want) {
		t.Fatalf("expected parts %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected part order %v, got %v", want, names)
		}
	}
	if fields["messaging_product"] != "whatsapp" || fields["type"] != "image/jpeg" {
		t.Fatalf("unexpected form fields: %v", fields)
	}
	if fileName != "photo.jpg" || string(content) != "jpeg-bytes" {
		t.Fatalf("unexpected file part: %q %q", fileName, content)
	}
}

func TestUploadFromReader(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{jsonResponse(http.StatusOK, `{"id":"media-2"}`)}}
	client := newTestClient(t, stub)

	src := whatsapp.ReaderSource("voice.ogg", strings.NewReader("ogg-bytes"))
	if _, err := client.Media.Upload(context.Background(), src, "audio/ogg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, fileName, content := parseUpload(t, stub.calls[0])
	if fileName != "voice.ogg" || string(content) != "ogg-bytes" {
		t.Fatalf("unexpected file part: %q %q", fileName, content)
	}
}

func TestUploadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("pdf-bytes"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	stub := &stubHTTP{responses: []*http.Response{jsonResponse(http.StatusOK, `{"id":"media-3"}`)}}
	client := newTestClient(t, stub)

	if _, err := client.Media.Upload(context.Background(), whatsapp.FileSource(path), "application/pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, fileName, content := parseUpload(t, stub.calls[0])
	if fileName != "doc.pdf" || string(content) != "pdf-bytes" {
		t.Fatalf("unexpected file part: %q %q", fileName, content)
	}
}

func TestUploadValidation(t *testing.T) {
	stub := &stubHTTP{}
	client := newTestClient(t, stub)

	if _, err := client.Media.Upload(context.Background(), whatsapp.BinarySource{}, "image/jpeg"); err == nil {
		t.Fatalf("expected error for empty source")
	}
	if _, err := client.Media.Upload(context.Background(), whatsapp.BytesSource("a.jpg", []byte("x")), " "); err == nil {
		t.Fatalf("expected error for missing mime type")
	}
	if len(stub.calls) != 0 {
		t.Fatalf("validation failures must not reach the network")
	}
}

func TestMediaGetAndFetch(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{
		jsonResponse(http.StatusOK, `{"id":"media-9","url":"https://lookaside.example.test/signed","mime_type":"image/png","sha256":"abc","file_size":3}`),
		binaryResponse(http.StatusOK, "image/png", "png"),
	}}
	client := newTestClient(t, stub)

	content, err := client.Media.Fetch(context.Background(), "media-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.ID != "media-9" || content.ContentType != "image/png" || string(content.Data) != "png" {
		t.Fatalf("unexpected fetch result: %+v", content)
	}

	if len(stub.calls) != 2 {
		t.Fatalf("expected resolve and download calls, got %d", len(stub.calls))
	}
	if !strings.HasSuffix(stub.calls[0].url, "/"+whatsapp.DefaultAPIVersion+"/media-9") {
		t.Fatalf("expected bare media id path, got %q", stub.calls[0].url)
	}
	if stub.calls[1].url != "https://lookaside.example.test/signed" {
		t.Fatalf("download must use the signed URL verbatim, got %q", stub.calls[1].url)
	}
	if got := stub.calls[1].header.Get("Authorization"); got != "Bearer "+testToken {
		t.Fatalf("download must be authenticated, got %q", got)
	}
}

func TestMediaGetRejectsIncompleteMetadata(t *testing.T) {
	stub := &stubHTTP{responses: []*http.Response{
		jsonResponse(http.StatusOK, `{"id":"media-9","mime_type":"image/png"}`),
	}}
	client := newTestClient(t, stub)

	_, err := client.Media.Get(context.Background(), "media-9")
	var verr *whatsapp.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !verr.Response || verr.Field != "url" {
		t.Fatalf("expected response validation on url, got %+v", verr)
	}
}

func TestMediaDelete(t *testing.T) {
	stub := &stubHTTP{}
	client := newTestClient(t, stub)

	if _, err := client.Media.Delete(context.Background(), "media-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls[0].method != http.MethodDelete {
		t.Fatalf("expected DELETE, got %s", stub.calls[0].method)
	}
}

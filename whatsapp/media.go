package whatsapp

import (
	"context"
	"net/http"
	"strings"
)

// UploadMediaResponse carries the id assigned to uploaded media.
type UploadMediaResponse struct {
	ID string `json:"id"`
}

func (r *UploadMediaResponse) validate() error {
	if r.ID == "" {
		return newValidationError("id", "value is required")
	}
	return nil
}

// MediaInfo is the metadata returned when resolving a media id, including the
// short-lived signed download URL.
type MediaInfo struct {
	ID               string `json:"id"`
	URL              string `json:"url"`
	MimeType         string `json:"mime_type"`
	SHA256           string `json:"sha256"`
	FileSize         int64  `json:"file_size"`
	MessagingProduct string `json:"messaging_product,omitempty"`
}

func (r *MediaInfo) validate() error {
	if r.ID == "" {
		return newValidationError("id", "value is required")
	}
	if r.URL == "" {
		return newValidationError("url", "value is required")
	}
	return nil
}

// MediaContent is the result of Fetch: the resolved metadata merged with the
// downloaded binary content.
type MediaContent struct {
	MediaInfo
	Data        []byte
	ContentType string
}

// MediaService uploads, resolves, downloads and deletes media.
type MediaService struct {
	t   *transport
	cfg Config
}

// Upload sends binary content as a multipart form. The form carries
// messaging_product, type and file in that fixed order; the multipart encoder
// supplies its own boundary-aware content type.
func (s *MediaService) Upload(ctx context.Context, src BinarySource, mimeType string) (*UploadMediaResponse, error) {
	if src.empty() {
		return nil, newValidationError("file", "binary source is required")
	}
	if strings.TrimSpace(mimeType) == "" {
		return nil, newValidationError("type", "mime type is required")
	}

	form := &multipartForm{}
	form.addField("messaging_product", MessagingProduct)
	form.addField("type", mimeType)
	form.addFile("file", src)

	data, err := s.t.do(ctx, s.cfg.PhoneNumberID+"/media", requestOptions{
		method: http.MethodPost,
		form:   form,
	})
	if err != nil {
		return nil, err
	}

	var out UploadMediaResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get resolves a media id into its metadata, including the signed URL the
// content can be downloaded from.
func (s *MediaService) Get(ctx context.Context, mediaID string) (*MediaInfo, error) {
	if strings.TrimSpace(mediaID) == "" {
		return nil, newValidationError("media_id", "value is required")
	}

	data, err := s.t.do(ctx, mediaID, requestOptions{})
	if err != nil {
		return nil, err
	}

	var out MediaInfo
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download fetches the content behind a signed media URL. The download is a
// separately authenticated request that does not go through the versioned URL
// builder because signed URLs are absolute.
func (s *MediaService) Download(ctx context.Context, signedURL string) ([]byte, string, error) {
	if strings.TrimSpace(signedURL) == "" {
		return nil, "", newValidationError("url", "value is required")
	}
	return s.t.download(ctx, signedURL)
}

// Fetch resolves a media id and downloads its content in one call. The two
// steps run sequentially and are not atomic: a download failure leaves the
// resolved URL unused, which is harmless since neither step mutates anything.
func (s *MediaService) Fetch(ctx context.Context, mediaID string) (*MediaContent, error) {
	info, err := s.Get(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	data, contentType, err := s.Download(ctx, info.URL)
	if err != nil {
		return nil, err
	}
	return &MediaContent{MediaInfo: *info, Data: data, ContentType: contentType}, nil
}

// Delete removes uploaded media by id.
func (s *MediaService) Delete(ctx context.Context, mediaID string) (*SuccessResponse, error) {
	if strings.TrimSpace(mediaID) == "" {
		return nil, newValidationError("media_id", "value is required")
	}

	data, err := s.t.do(ctx, mediaID, requestOptions{method: http.MethodDelete})
	if err != nil {
		return nil, err
	}

	var out SuccessResponse
	if err := parseResponse(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

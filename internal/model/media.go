package model

import "strings"

const (
	CaptureCacheControl = "public, max-age=3600"
	DefaultCaptureExt   = "jpg"
)

// Image content types recognized when choosing an object extension.
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
	ContentTypeHEIC = "image/heic"
)

var imageExtensions = map[string]string{
	ContentTypeJPEG: "jpg",
	ContentTypePNG:  "png",
	ContentTypeGIF:  "gif",
	ContentTypeWebP: "webp",
	ContentTypeHEIC: "heic",
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge  = "FILE_TOO_LARGE"
	CodeMissingMedia  = "MISSING_MEDIA"
	CodeSelfFollow    = "SELF_FOLLOW_REJECTED"
	CodeSpotOwnership = "SPOT_OWNERSHIP"
	CodeUpstream      = "UPSTREAM_FAILURE"
	CodeValidation    = "VALIDATION_ERROR"
)

// UploadResult represents the uploaded object location.
// URL is the public-facing URL; Key is the object key inside the bucket.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ExtensionForContentType maps an image content type to a file extension.
// Parameters such as "; charset=" are ignored.
func ExtensionForContentType(contentType string) (string, bool) {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

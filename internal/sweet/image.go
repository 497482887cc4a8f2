package sweet

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotImage = errors.New("file is not an image")

// ImageURL is the current image reference: a remote URL or a data URL.
func (f *Form) ImageURL() string {
	return f.imageURL
}

// SetImageURL replaces the image reference with a pasted URL.
func (f *Form) SetImageURL(s string) {
	f.imageURL = strings.TrimSpace(s)
}

// AttachImage reads a local image and stores it inline, as a base64 data
// URL, in the same field a pasted URL would use.
func (f *Form) AttachImage(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	mimeType := imageType(path, data)
	if mimeType == "" {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrNotImage)
	}
	f.imageURL = EncodeDataURL(mimeType, data)
	return nil
}

func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func imageType(path string, data []byte) string {
	if t, _, err := mime.ParseMediaType(mime.TypeByExtension(filepath.Ext(path))); err == nil && strings.HasPrefix(t, "image/") {
		return t
	}
	if t := http.DetectContentType(data); strings.HasPrefix(t, "image/") {
		return t
	}
	return ""
}

// PreviewVisible reports whether the preview should be shown. It is hidden
// when there is no reference or the reference cannot be loaded as an image.
func (f *Form) PreviewVisible() bool {
	return previewable(f.imageURL)
}

func previewable(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.HasPrefix(ref, "data:") {
		return validDataURL(ref)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validDataURL(ref string) bool {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok || payload == "" {
		return false
	}
	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 || !strings.HasPrefix(mediaType, "image/") {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(payload)
	return err == nil
}

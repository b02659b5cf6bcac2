package util

import (
	"net/http"
	"strings"
)

// SniffMIME reports the content type of b from its leading bytes.
func SniffMIME(b []byte) string {
	if len(b) > 512 {
		b = b[:512]
	}
	mimeType, _, _ := strings.Cut(http.DetectContentType(b), ";")
	return mimeType
}

// IsAvatarMIME reports whether mimeType is a raster format the avatar
// pipeline can decode.
func IsAvatarMIME(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp", "image/bmp":
		return true
	default:
		return false
	}
}

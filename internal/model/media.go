package model

import (
	"path/filepath"
	"strings"
)

// VideoExtensions lists the file extensions the output resolver treats as
// video, lowercased with leading dot.
var VideoExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".avi", ".flv", ".m4v"}

// Default content type for unrecognized extensions.
const DefaultMIMEType = "application/octet-stream"

// mimeTypes maps video extensions to the content type used when serving
// artifacts over HTTP.
var mimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".flv":  "video/x-flv",
	".m4v":  "video/mp4",
}

// IsVideoFile reports whether name carries a recognized video extension.
func IsVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, v := range VideoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// MIMETypeFor returns the content type for a file name based on its
// extension, falling back to application/octet-stream.
func MIMETypeFor(name string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return DefaultMIMEType
}

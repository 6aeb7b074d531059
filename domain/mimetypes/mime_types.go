package mimetypes

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"

	ApplicationPDF  MIME = "application/pdf"
	ApplicationJSON MIME = "application/json"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
)

// Normalize resolves a client supplied media-type tag against the types known
// to the detector. Parameters are dropped and the result is lower case.
func Normalize(tag string) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(tag))
	if err != nil {
		return Unknown, false
	}
	// Text types are registered with their charset
	if mimetype.Lookup(mt) == nil && mimetype.Lookup(mt+"; charset=utf-8") == nil {
		return Unknown, false
	}
	return MIME(mt), true
}

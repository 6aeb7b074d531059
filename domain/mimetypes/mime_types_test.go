package mimetypes

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want MIME
		ok   bool
	}{
		// Text types
		{"Plain text", "text/plain", TextPlain, true},
		{"Plain text with charset", "text/plain; charset=utf-8", TextPlain, true},
		{"HTML text", "text/html", MIME("text/html"), true},

		// Application types
		{"JSON", "application/json", ApplicationJSON, true},
		{"PDF", "application/pdf", ApplicationPDF, true},

		// Image types
		{"PNG", "image/png", ImagePNG, true},
		{"JPEG upper case", "IMAGE/JPEG", ImageJPEG, true},

		// Rejections
		{"Made up type", "application/x-made-up", Unknown, false},
		{"Invalid MIME", "not a mime", Unknown, false},
		{"Empty", "", Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.tag)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Normalize(%q) = %q, %v; want %q, %v", tt.tag, got, ok, tt.want, tt.ok)
			}
		})
	}
}

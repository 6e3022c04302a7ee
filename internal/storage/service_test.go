package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		maxSizeMB   int
		valid       bool
	}{
		{"jpeg ok", "image/jpeg", 1024, 0, true},
		{"png ok", "image/png", 1024, 0, true},
		{"webp ok", "image/webp", 1024, 0, true},
		{"gif ok", "image/gif", 1024, 0, true},
		{"case insensitive", "IMAGE/PNG", 1024, 0, true},
		{"pdf rejected", "application/pdf", 1024, 0, false},
		{"empty type rejected", "", 1024, 0, false},
		{"over default limit", "image/jpeg", 11 * 1024 * 1024, 0, false},
		{"at custom limit", "image/jpeg", 2 * 1024 * 1024, 2, true},
		{"over custom limit", "image/jpeg", 2*1024*1024 + 1, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateImage(tt.contentType, tt.size, tt.maxSizeMB)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.Error)
			}
		})
	}
}

func TestNewServiceWithoutClient(t *testing.T) {
	// Only Upload, Delete, and ViewURL reach S3; constructing the service
	// and building preview URLs must work without a client.
	var s *Service
	assert.NotPanics(t, func() {
		s = NewService(nil, "bucket", "https://media.example.com")
	})
	assert.NotEmpty(t, s.PreviewURL("f1", 0, 0))
}

func TestPreviewURL(t *testing.T) {
	s := NewService(nil, "bucket", "https://media.example.com/")

	assert.Equal(t,
		"https://media.example.com/files/f1/preview?width=500&height=500",
		s.PreviewURL("f1", 0, 0), "defaults apply when dimensions are omitted")

	assert.Equal(t,
		"https://media.example.com/files/f1/preview?width=200&height=300",
		s.PreviewURL("f1", 200, 300))
}

func TestUniqueFilename(t *testing.T) {
	a := UniqueFilename("dinner.jpg")
	b := UniqueFilename("dinner.jpg")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))

	noExt := UniqueFilename("dinner")
	assert.NotContains(t, noExt, ".")
}

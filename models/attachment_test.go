package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindForContentType(t *testing.T) {
	cases := map[string]FileKind{
		"image/jpeg":         KindImage,
		"image/png":          KindImage,
		"application/pdf":    KindPDF,
		"application/msword": KindWord,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindWord,
		"video/mp4": KindVideo,
	}
	for contentType, want := range cases {
		kind, err := KindForContentType(contentType)
		require.NoError(t, err, contentType)
		assert.Equal(t, want, kind, contentType)
	}
}

func TestKindForContentTypeRejectsUnknown(t *testing.T) {
	for _, contentType := range []string{"image/gif", "text/plain", "audio/mpeg", ""} {
		_, err := KindForContentType(contentType)
		assert.Error(t, err, contentType)
	}
}

func TestCategoryKind(t *testing.T) {
	assert.Equal(t, FileKind("image"), CategoryKind("image/png"))
	assert.Equal(t, FileKind("video"), CategoryKind("video/mp4"))
	assert.Equal(t, FileKind("application"), CategoryKind("application/pdf"))
}

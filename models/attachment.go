package models

import (
	"fmt"
	"strings"
)

// FileKind is the coarse media classification stored with every attachment.
type FileKind string

const (
	KindImage FileKind = "image"
	KindPDF   FileKind = "pdf"
	KindWord  FileKind = "word"
	KindVideo FileKind = "video"
)

// Attachment is a stored file owned by exactly one post, comment or reply.
type Attachment struct {
	URL  string   `bson:"url" json:"url"`
	Type FileKind `bson:"type" json:"type"`
}

var fileKinds = map[string]FileKind{
	"image/jpeg":         KindImage,
	"image/png":          KindImage,
	"application/pdf":    KindPDF,
	"application/msword": KindWord,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindWord,
	"video/mp4": KindVideo,
}

// KindForContentType maps a declared content type to a file kind. Unknown
// types are a validation failure, not a fallback.
func KindForContentType(contentType string) (FileKind, error) {
	kind, ok := fileKinds[contentType]
	if !ok {
		return "", fmt.Errorf("invalid file type: %s", contentType)
	}
	return kind, nil
}

// CategoryKind derives a kind from the first MIME segment ("image/png" ->
// "image"). Comment attachments are classified this way.
func CategoryKind(contentType string) FileKind {
	category, _, _ := strings.Cut(contentType, "/")
	return FileKind(category)
}

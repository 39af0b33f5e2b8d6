// Package storage is the disk-backed attachment store. Uploaded files live
// under a content root and are addressed by their root-relative path, which is
// also the URL under the static /uploads mount.
package storage

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	BlogFilesDir       = "blog-files"
	ProfilePicturesDir = "profile-pictures"
)

// Upload violations surface to clients verbatim as 400s.
var (
	ErrFileTooLarge    = errors.New("File too large. Maximum size is 20MB.")
	ErrPictureTooLarge = errors.New("File too large. Maximum size is 5MB.")
	ErrTooManyFiles    = errors.New("Too many files. Maximum number is 10.")
	ErrFileType        = errors.New("Invalid file type")
)

var blogFileTokens = []string{"jpeg", "jpg", "png", "pdf", "doc", "docx", "mp4"}
var pictureTokens = []string{"jpeg", "jpg", "png"}

// Store writes and removes attachment files. Removal is best-effort: failures
// are logged and never escalated, so document mutation always proceeds.
type Store struct {
	Root         string
	MaxFileSize  int64
	MaxPicSize   int64
	MaxBlogFiles int
}

func New(root string) (*Store, error) {
	s := &Store{
		Root:         root,
		MaxFileSize:  20 << 20,
		MaxPicSize:   5 << 20,
		MaxBlogFiles: 10,
	}
	for _, dir := range []string{BlogFilesDir, ProfilePicturesDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SaveBlogFiles stages every uploaded blog file, returning locators in input
// order. Count, size and type are validated first; if any file fails to write,
// the ones already staged are removed before returning.
func (s *Store) SaveBlogFiles(files []*multipart.FileHeader) ([]string, error) {
	if len(files) > s.MaxBlogFiles {
		return nil, ErrTooManyFiles
	}
	for _, fh := range files {
		if fh.Size > s.MaxFileSize {
			return nil, ErrFileTooLarge
		}
		if !typeAllowed(fh, blogFileTokens) {
			return nil, ErrFileType
		}
	}

	locators := make([]string, 0, len(files))
	for _, fh := range files {
		locator, err := s.save(fh, BlogFilesDir)
		if err != nil {
			s.DeleteAll(locators)
			return nil, err
		}
		locators = append(locators, locator)
	}
	return locators, nil
}

// SaveProfilePicture stages a single image upload and returns its locator.
func (s *Store) SaveProfilePicture(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.MaxPicSize {
		return "", ErrPictureTooLarge
	}
	if !typeAllowed(fh, pictureTokens) {
		return "", ErrFileType
	}
	return s.save(fh, ProfilePicturesDir)
}

// Delete removes the file behind a locator. A missing file or any other
// failure is logged and swallowed; the caller's mutation always wins.
func (s *Store) Delete(locator string) {
	if locator == "" {
		return
	}
	if err := os.Remove(locator); err != nil {
		zap.L().Warn("deleting attachment", zap.String("path", locator), zap.Error(err))
	}
}

func (s *Store) DeleteAll(locators []string) {
	for _, locator := range locators {
		s.Delete(locator)
	}
}

func (s *Store) save(fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + "-" + filepath.Base(fh.Filename)
	locator := filepath.Join(s.Root, dir, name)

	dst, err := os.Create(locator)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(locator)
		return "", err
	}
	return locator, nil
}

// typeAllowed mirrors the upload filter: the file extension must be in the
// allowed set, and the declared content type must mention one of the same
// tokens. The finer declared-type-to-kind mapping happens after staging.
func typeAllowed(fh *multipart.FileHeader, tokens []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	extOK := false
	for _, t := range tokens {
		if ext == t {
			extOK = true
			break
		}
	}
	if !extOK {
		return false
	}

	contentType := strings.ToLower(fh.Header.Get("Content-Type"))
	for _, t := range tokens {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

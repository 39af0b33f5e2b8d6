package storage

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader by encoding and re-parsing a
// form, so Size and the part headers behave as they do for live requests.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="blogFiles"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["blogFiles"][0]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSaveBlogFilesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	files := []*multipart.FileHeader{
		fileHeader(t, "a.png", "image/png", []byte("png-bytes")),
		fileHeader(t, "b.pdf", "application/pdf", []byte("pdf-bytes")),
	}

	locators, err := s.SaveBlogFiles(files)
	require.NoError(t, err)
	require.Len(t, locators, 2)

	for _, locator := range locators {
		assert.Equal(t, filepath.Join(s.Root, BlogFilesDir), filepath.Dir(locator))
		_, err := os.Stat(locator)
		assert.NoError(t, err)
	}

	data, err := os.ReadFile(locators[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveBlogFilesRejectsTooMany(t *testing.T) {
	s := newTestStore(t)
	s.MaxBlogFiles = 1
	files := []*multipart.FileHeader{
		fileHeader(t, "a.png", "image/png", []byte("x")),
		fileHeader(t, "b.png", "image/png", []byte("y")),
	}

	_, err := s.SaveBlogFiles(files)
	assert.ErrorIs(t, err, ErrTooManyFiles)
}

func TestSaveBlogFilesRejectsOversized(t *testing.T) {
	s := newTestStore(t)
	s.MaxFileSize = 4
	files := []*multipart.FileHeader{
		fileHeader(t, "a.png", "image/png", []byte("more than four bytes")),
	}

	_, err := s.SaveBlogFiles(files)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaveBlogFilesRejectsBadType(t *testing.T) {
	s := newTestStore(t)

	for _, fh := range []*multipart.FileHeader{
		fileHeader(t, "evil.exe", "application/octet-stream", []byte("x")),
		fileHeader(t, "notes.txt", "text/plain", []byte("x")),
		// Extension allowed but declared type mismatched.
		fileHeader(t, "a.png", "text/html", []byte("x")),
	} {
		_, err := s.SaveBlogFiles([]*multipart.FileHeader{fh})
		assert.ErrorIs(t, err, ErrFileType, fh.Filename)
	}

	// Nothing may be left behind in the content root.
	entries, err := os.ReadDir(filepath.Join(s.Root, BlogFilesDir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveProfilePicture(t *testing.T) {
	s := newTestStore(t)

	locator, err := s.SaveProfilePicture(fileHeader(t, "me.jpg", "image/jpeg", []byte("jpg")))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root, ProfilePicturesDir), filepath.Dir(locator))

	_, err = s.SaveProfilePicture(fileHeader(t, "cv.pdf", "application/pdf", []byte("pdf")))
	assert.ErrorIs(t, err, ErrFileType, "profile pictures are images only")
}

func TestDeleteIsBestEffort(t *testing.T) {
	s := newTestStore(t)

	locators, err := s.SaveBlogFiles([]*multipart.FileHeader{
		fileHeader(t, "a.png", "image/png", []byte("x")),
	})
	require.NoError(t, err)

	s.Delete(locators[0])
	_, err = os.Stat(locators[0])
	assert.True(t, os.IsNotExist(err))

	// Deleting an already-missing file must not panic or error out.
	s.Delete(locators[0])
	s.Delete("")
}

func TestDeleteAllRemovesEveryStagedFile(t *testing.T) {
	s := newTestStore(t)

	var files []*multipart.FileHeader
	for i := 0; i < 5; i++ {
		files = append(files, fileHeader(t, fmt.Sprintf("f%d.png", i), "image/png", []byte("x")))
	}
	locators, err := s.SaveBlogFiles(files)
	require.NoError(t, err)

	s.DeleteAll(locators)

	entries, err := os.ReadDir(filepath.Join(s.Root, BlogFilesDir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

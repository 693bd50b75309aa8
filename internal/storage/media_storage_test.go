package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func newTestStorage(t *testing.T) *MediaStorage {
	t.Helper()

	s, err := NewMediaStorage(t.TempDir(), 1)
	require.NoError(t, err)
	return s
}

func TestMediaStorage_SaveImage(t *testing.T) {
	s := newTestStorage(t)
	owner := uuid.New()

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 512)...)
	path, mediaType, err := s.Save(context.Background(), owner, "avatar.png", bytes.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, models.MediaTypeImage, mediaType)
	assert.True(t, strings.HasPrefix(path, owner.String()+"/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	stored, err := os.ReadFile(filepath.Join(s.rootPath, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestMediaStorage_RejectsUnsupportedType(t *testing.T) {
	s := newTestStorage(t)

	_, _, err := s.Save(context.Background(), uuid.New(), "notes.txt", strings.NewReader("just some plain text, definitely not media"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrCodeMediaUpload))
}

func TestMediaStorage_RejectsOversizedUpload(t *testing.T) {
	s := newTestStorage(t)
	owner := uuid.New()

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1024*1024+64)...)
	_, _, err := s.Save(context.Background(), owner, "huge.png", bytes.NewReader(payload))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrCodeMediaUpload))

	// A rejected upload must not leave partial files behind.
	entries, err := os.ReadDir(filepath.Join(s.rootPath, owner.String()))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMediaStorage_DeleteIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	owner := uuid.New()

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 128)...)
	path, _, err := s.Save(context.Background(), owner, "avatar.png", bytes.NewReader(payload))
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), path))
	require.NoError(t, s.Delete(context.Background(), path))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "photo.png", sanitizeFilename("photo.png"))
	assert.Equal(t, "photo.png", sanitizeFilename("/uploads/photo.png"))
	assert.Equal(t, "etc_passwd", sanitizeFilename("../../etc\\passwd"))
	assert.Equal(t, "media", sanitizeFilename(""))
}

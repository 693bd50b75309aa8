package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"

	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

// MediaStorage stores post media on local disk. Uploads are classified
// as image or video from magic bytes; anything else is rejected. The
// upload happens before the post transaction, so a failed upload never
// leaves a half-created post behind.
type MediaStorage struct {
	rootPath       string
	maxUploadBytes int64
}

func NewMediaStorage(rootPath string, maxUploadMB int64) (*MediaStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root dir %s: %w", rootPath, err)
	}

	return &MediaStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Save streams the upload to disk and returns the relative media path
// and the detected media type (image or video).
func (s *MediaStorage) Save(ctx context.Context, ownerID uuid.UUID, originalName string, r io.Reader) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	// filetype needs only the first few hundred bytes to classify.
	header := make([]byte, 262)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", "", apperror.Wrap(err, apperror.ErrCodeMediaUpload, "failed to read upload")
	}
	header = header[:n]

	kind, err := filetype.Match(header)
	if err != nil {
		return "", "", apperror.Wrap(err, apperror.ErrCodeMediaUpload, "failed to detect file type")
	}

	mediaType, ok := classify(kind)
	if !ok {
		return "", "", apperror.New(apperror.ErrCodeMediaUpload, "unsupported media type, only images and videos are allowed")
	}

	safeName := sanitizeFilename(originalName)
	fileName := fmt.Sprintf("%s_%d%s", ownerID.String(), time.Now().UnixNano(), filepath.Ext(safeName))

	ownerDir := filepath.Join(s.rootPath, ownerID.String())
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return "", "", apperror.Wrap(err, apperror.ErrCodeMediaUpload, "failed to create media directory")
	}

	targetPath := filepath.Join(ownerDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", "", apperror.Wrap(err, apperror.ErrCodeMediaUpload, "failed to create media file")
	}
	defer f.Close()

	if _, err := f.Write(header); err != nil {
		_ = os.Remove(tempPath)
		return "", "", apperror.Wrap(err, apperror.ErrCodeMediaUpload, "failed to write media file")
	}

	limited := io.LimitedReader{R: r, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limited)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", "", apperror.Wrap(err, apperror.ErrCodeMediaUpload, "failed to write media file")
	}

	if written+int64(len(header)) > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", "", apperror.New(apperror.ErrCodeMediaUpload, fmt.Sprintf("file exceeds the %d byte upload limit", s.maxUploadBytes))
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", "", apperror.Wrap(err, apperror.ErrCodeMediaUpload, "failed to close media file")
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return "", "", apperror.Wrap(err, apperror.ErrCodeMediaUpload, "failed to finalize media file")
	}

	relative := filepath.ToSlash(filepath.Join(ownerID.String(), fileName))
	return relative, mediaType, nil
}

// Delete removes a previously stored file; a missing file is not an
// error, so cascades stay idempotent.
func (s *MediaStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.FromSlash(relativePath))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete media file: %w", err)
	}
	return nil
}

// classify maps a detected file kind onto the post media types.
func classify(kind types.Type) (string, bool) {
	switch {
	case strings.HasPrefix(kind.MIME.Value, "image/"):
		return models.MediaTypeImage, true
	case strings.HasPrefix(kind.MIME.Value, "video/"):
		return models.MediaTypeVideo, true
	}
	return "", false
}

// sanitizeFilename strips path components and traversal characters.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" || name == "." {
		name = "media"
	}
	return name
}

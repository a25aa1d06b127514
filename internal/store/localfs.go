package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/models"
)

// LocalImageStore keeps profile images in a directory shared by all
// instances, such as a mounted volume.
type LocalImageStore struct {
	dir string
	log zerolog.Logger
}

func NewLocalImageStore(dir string, log zerolog.Logger) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("image dir %s: %w", dir, err)
	}
	return &LocalImageStore{dir: dir, log: log}, nil
}

func (s *LocalImageStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Put writes the image and, when it decodes, a thumbnail next to it.
func (s *LocalImageStore) Put(_ context.Context, name string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	thumb, _, err := thumbnail(data, name)
	if err != nil {
		s.log.Debug().Err(err).Str("file", name).Msg("thumbnail skipped")
		return nil
	}
	if err := os.WriteFile(s.path(ThumbnailName(name)), thumb, 0o644); err != nil {
		s.log.Warn().Err(err).Str("file", name).Msg("thumbnail write failed")
	}
	return nil
}

func (s *LocalImageStore) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("image %s: %w", name, models.ErrNotFound)
		}
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	return f, mime.TypeByExtension(filepath.Ext(name)), nil
}

// Ping checks the directory is still there.
func (s *LocalImageStore) Ping(context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalStorage writes attachments to a directory served statically under a
// fixed URL prefix.
type LocalStorage struct {
	dir       string
	urlPrefix string
	logger    zerolog.Logger
}

func NewLocalStorage(dir, urlPrefix string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStorage{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}, nil
}

func (s *LocalStorage) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	stored := UniqueFileName(fileName)
	path := filepath.Join(s.dir, stored)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Info().
		Str("file", stored).
		Int("size", len(data)).
		Msg("File stored on local disk")

	return s.urlPrefix + "/" + stored, nil
}

func (s *LocalStorage) Delete(ctx context.Context, fileURL string) error {
	stored := strings.TrimPrefix(fileURL, s.urlPrefix+"/")
	if stored == "" || strings.Contains(stored, "..") || strings.Contains(stored, "/") {
		return fmt.Errorf("refusing to delete suspicious path %q", fileURL)
	}

	if err := os.Remove(filepath.Join(s.dir, stored)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// Dir exposes the backing directory for static file serving.
func (s *LocalStorage) Dir() string {
	return s.dir
}

package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage persists submission attachments and returns the URL under which
// the stored file is reachable.
type Storage interface {
	Save(ctx context.Context, fileName string, data []byte) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// UniqueFileName derives a collision-free stored name from the uploaded one.
func UniqueFileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))

	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "..", "")

	return fmt.Sprintf("%s_%d_%s%s", name, time.Now().UnixNano(), uuid.New().String()[:8], ext)
}

// DatePartitionedKey prefixes a stored name with the yyyy/mm/dd of upload.
func DatePartitionedKey(fileName string) string {
	now := time.Now()
	return fmt.Sprintf("%d/%02d/%02d/%s", now.Year(), now.Month(), now.Day(), fileName)
}

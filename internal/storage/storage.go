package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ImageStorage persists recipe images and returns the URL they are served from.
type ImageStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// NewObjectKey returns a unique key such as "recipes/<uuid>.png".
func NewObjectKey(folder, ext string) string {
	return fmt.Sprintf("%s/%s.%s", folder, uuid.New().String(), ext)
}

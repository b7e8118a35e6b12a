package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ObjectStore stores private objects and hands out time-limited links to them
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
	GeneratePresignedDownloadURL(ctx context.Context, objectPath, filename string, expiry time.Duration) (string, error)
}

// GenerateObjectPath creates a unique object path for an entity's file
func GenerateObjectPath(workspaceID int32, entityType string, entityID int32, variant string, ext string) string {
	return VariantPath(workspaceID, entityType, entityID, uuid.New().String(), variant, ext)
}

// VariantPath builds the path of one variant of a stored file. Variants of the
// same upload share id and differ only in their suffix.
func VariantPath(workspaceID int32, entityType string, entityID int32, id, variant, ext string) string {
	filename := fmt.Sprintf("%s_%s%s", id, variant, ext)
	return path.Join(fmt.Sprintf("%d", workspaceID), entityType, fmt.Sprintf("%d", entityID), filename)
}

// GenerateExportPath creates a unique object path for a generated export
func GenerateExportPath(workspaceID int32, name string, ext string) string {
	filename := fmt.Sprintf("%s_%s%s", name, uuid.New().String(), ext)
	return path.Join(fmt.Sprintf("%d", workspaceID), "exports", filename)
}

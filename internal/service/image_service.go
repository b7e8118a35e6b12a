package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/repository/storage"
)

const (
	MaxImageSize   = 5 * 1024 * 1024 // 5MB
	MinImageWidth  = 32
	MinImageHeight = 32
	IconSize       = 128
	DisplayWidth   = 512
	JPEGQuality    = 85

	// ImageURLTTL is how long a presigned image link stays valid
	ImageURLTTL = time.Hour
)

var (
	ErrImageTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat             = errors.New("invalid format. Supported: JPEG, PNG")
	ErrImageTooSmall             = errors.New("image too small. Minimum 32x32 pixels")
	ErrInvalidImageData          = errors.New("invalid image data")
	ErrImageStorageNotConfigured = errors.New("image storage not configured")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// StoredImage holds the object paths of an uploaded image's variants
type StoredImage struct {
	ID          string
	IconPath    string
	DisplayPath string
}

// ImageService resizes uploaded pictures and keeps them in object storage
type ImageService struct {
	store storage.ObjectStore
}

// NewImageService creates a new ImageService. A nil store disables uploads.
func NewImageService(store storage.ObjectStore) *ImageService {
	return &ImageService{store: store}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ImageService) IsEnabled() bool {
	return s != nil && s.store != nil
}

func (s *ImageService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	if _, ok := AllowedExtensions[strings.ToLower(filepath.Ext(filename))]; !ok {
		return nil, ErrInvalidFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidImageData
	}
	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}
	return img, nil
}

// ProcessAndUpload stores a square icon crop and a width-bounded display copy
func (s *ImageService) ProcessAndUpload(ctx context.Context, workspaceID int32, entityType string, entityID int32, data []byte, filename string) (*StoredImage, error) {
	if !s.IsEnabled() {
		return nil, ErrImageStorageNotConfigured
	}
	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	display := img
	if img.Bounds().Dx() > DisplayWidth {
		display = imaging.Resize(img, DisplayWidth, 0, imaging.Lanczos)
	}
	variants := []struct {
		name string
		img  image.Image
	}{
		{"icon", imaging.Fill(img, IconSize, IconSize, imaging.Center, imaging.Lanczos)},
		{"display", display},
	}

	imageID := uuid.New().String()
	var uploaded []string
	for _, variant := range variants {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, variant.img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
			s.DeletePaths(ctx, uploaded...)
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := storage.VariantPath(workspaceID, entityType, entityID, imageID, variant.name, ".jpg")
		if _, err := s.store.Upload(ctx, objectPath, &buf, "image/jpeg", int64(buf.Len())); err != nil {
			s.DeletePaths(ctx, uploaded...)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		uploaded = append(uploaded, objectPath)
	}

	return &StoredImage{
		ID:          imageID,
		IconPath:    uploaded[0],
		DisplayPath: uploaded[1],
	}, nil
}

// DeletePaths removes objects, logging failures. Cleanup is best effort.
func (s *ImageService) DeletePaths(ctx context.Context, objectPaths ...string) {
	if !s.IsEnabled() {
		return
	}
	for _, p := range objectPaths {
		if p == "" {
			continue
		}
		if err := s.store.Delete(ctx, p); err != nil {
			log.Warn().Err(err).Str("object_path", p).Msg("Failed to delete image")
		}
	}
}

// URL returns a presigned link to a stored image
func (s *ImageService) URL(ctx context.Context, objectPath string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrImageStorageNotConfigured
	}
	return s.store.GeneratePresignedURL(ctx, objectPath, ImageURLTTL)
}

// DisplayPathFor derives the display variant's path from an icon path
func DisplayPathFor(iconPath string) string {
	if !strings.HasSuffix(iconPath, "_icon.jpg") {
		return ""
	}
	return strings.TrimSuffix(iconPath, "_icon.jpg") + "_display.jpg"
}

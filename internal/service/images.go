// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Upload limits.
const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	MaxImageWidth = 1600             // Larger uploads are downscaled to this width
)

// allowedImageExtensions maps accepted upload extensions to the on-disk
// encoding extension. WebP uploads are re-encoded as JPEG since the pure Go
// stack only decodes WebP.
var allowedImageExtensions = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".png":  ".png",
	".gif":  ".gif",
	".webp": ".jpg",
}

// ImageService stores item photos under the uploads directory and hands back
// the public URL path persisted on the item row.
type ImageService struct {
	uploadDir string
}

// NewImageService creates a new ImageService rooted at uploadDir.
func NewImageService(uploadDir string) *ImageService {
	return &ImageService{uploadDir: uploadDir}
}

// Save validates, downscales and stores an uploaded item image. It returns
// the public path (e.g. /uploads/items/3f2a….jpg) to persist on the item.
func (s *ImageService) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxUploadSize {
		return "", fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", header.Size, MaxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	outExt, ok := allowedImageExtensions[ext]
	if !ok {
		return "", fmt.Errorf("file type %q is not allowed", ext)
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	// Bound the stored size; Resize with height 0 preserves aspect ratio
	if img.Bounds().Dx() > MaxImageWidth {
		img = imaging.Resize(img, MaxImageWidth, 0, imaging.Lanczos)
	}

	dir := filepath.Join(s.uploadDir, "items")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	filename := uuid.New().String() + outExt
	if err := imaging.Save(img, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}

	return path.Join("/uploads/items", filename), nil
}

// Remove deletes a previously stored item image by its public path. Missing
// files are not an error so replace/delete flows stay idempotent.
func (s *ImageService) Remove(publicPath string) error {
	rel, ok := strings.CutPrefix(publicPath, "/uploads/")
	if !ok {
		return fmt.Errorf("unexpected image path %q", publicPath)
	}
	// Defense against traversal in stored paths
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("unexpected image path %q", publicPath)
	}

	err := os.Remove(filepath.Join(s.uploadDir, rel))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing image: %w", err)
	}
	return nil
}

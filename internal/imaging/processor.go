// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded project images using pure Go
// libraries: decode, auto-rotate from EXIF, resize, and re-encode.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

const (
	// maxImageWidth bounds the stored image; larger uploads are scaled down.
	maxImageWidth = 1600

	thumbWidth  = 400
	thumbHeight = 300

	jpegQuality = 85
)

// Result holds the relative paths of the stored image and thumbnail.
type Result struct {
	ImagePath string
	ThumbPath string
}

// Processor handles project image processing.
type Processor struct{}

// NewProcessor creates a new image processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// ProcessProjectImage decodes an upload, applies EXIF orientation,
// scales it down when oversized, renders a center-cropped thumbnail,
// and stores both as JPEG under uploadDir/projects/<projectID>/.
// Returned paths are relative to uploadDir. EXIF metadata is dropped
// by re-encoding.
func (p *Processor) ProcessProjectImage(uploadDir, projectID string, r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading image data: %w", err)
	}

	if !supportedFormat(data) {
		return Result{}, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}
	thumb := imaging.Fill(img, thumbWidth, thumbHeight, imaging.Center, imaging.Lanczos)

	subDir := filepath.Join("projects", projectID)
	imagePath, err := saveJPEG(uploadDir, subDir, "image.jpg", img)
	if err != nil {
		return Result{}, err
	}
	thumbPath, err := saveJPEG(uploadDir, subDir, "thumb.jpg", thumb)
	if err != nil {
		return Result{}, err
	}

	return Result{ImagePath: imagePath, ThumbPath: thumbPath}, nil
}

// DeleteProjectImages removes all stored files for a project.
func (p *Processor) DeleteProjectImages(uploadDir, projectID string) error {
	dir := filepath.Join(uploadDir, "projects", filepath.Base(projectID))
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting project images: %w", err)
	}
	return nil
}

// supportedFormat reports whether the data looks like a processable
// image. TIFF is rejected explicitly (CVE-2023-36308 in
// disintegration/imaging).
func supportedFormat(data []byte) bool {
	contentType := http.DetectContentType(data)
	if strings.Contains(contentType, "tiff") {
		return false
	}
	for _, t := range []string{"jpeg", "png", "gif", "webp"} {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// saveJPEG writes img under baseDir/subDir/filename and returns the
// path relative to baseDir. The target directory is validated to stay
// within baseDir.
func saveJPEG(baseDir, subDir, filename string, img image.Image) (string, error) {
	cleanSubDir := filepath.Clean(subDir)
	if strings.Contains(cleanSubDir, "..") || filepath.IsAbs(cleanSubDir) {
		return "", fmt.Errorf("invalid subdirectory path")
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}
	absTarget := filepath.Join(absBase, cleanSubDir)

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(absTarget, 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encoding jpeg: %w", err)
	}

	if err := os.WriteFile(filepath.Join(absTarget, filename), buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return filepath.Join(cleanSubDir, filename), nil
}

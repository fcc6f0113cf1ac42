package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// boardExtensions lists the file extensions a board can be read from.
var boardExtensions = map[string]bool{
	".json": true,
	".toml": true,
	".yaml": true,
	".yml":  true,
}

// ValidateBoardFilename checks that a board file has a supported extension.
func ValidateBoardFilename(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !boardExtensions[ext] {
		return New(ErrCodeInvalidBoard, "unsupported board file %q (want .json, .toml, .yaml or .yml)", filepath.Base(path))
	}
	return nil
}

// ValidateLayoutID validates a layout record identifier.
// Identifiers are UUIDs generated by the server.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid layout id %q", id)
	}
	return nil
}

// ValidateRegion validates a query rectangle.
// Width and height may be zero (an empty region matches nothing) but never
// negative, and no component may be NaN or infinite.
func ValidateRegion(x, y, width, height float64) error {
	for _, v := range []float64{x, y, width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "region contains a non-finite value")
		}
	}
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "region size must be non-negative, got %gx%g", width, height)
	}
	return nil
}

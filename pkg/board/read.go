package board

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pinboard/pkg/errors"
)

// Board file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FormatFromPath returns the board format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	if err := errors.ValidateBoardFilename(path); err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatJSON, nil
	}
}

// ReadFile reads, normalizes and validates a board file.
func ReadFile(path string) (*Board, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "board file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBoard, err, "read %s", path)
	}
	return Parse(data, format)
}

// Parse decodes a board in the given format, then normalizes and
// validates it.
func Parse(data []byte, format string) (*Board, error) {
	var b Board
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&b)
	case FormatTOML:
		err = toml.Unmarshal(data, &b)
	case FormatYAML:
		err = yaml.Unmarshal(data, &b)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported board format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBoard, err, "decode %s board", format)
	}

	b.Normalize()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Marshal encodes a board as JSON. The output is stable and used for
// content hashing.
func Marshal(b *Board) ([]byte, error) {
	return json.Marshal(b)
}

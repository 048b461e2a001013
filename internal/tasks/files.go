package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/mympctl/internal/shared"
	"gopkg.in/yaml.v3"
)

// Export file formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FormatFromPath picks the format from the file extension, defaulting to YAML.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// EncodeExport writes export to w in the given format.
func EncodeExport(w io.Writer, export *HomeExport, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, format)
	}
	return nil
}

// DecodeExport reads an export in the given format.
func DecodeExport(r io.Reader, format string) (*HomeExport, error) {
	var export HomeExport
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&export); err != nil {
			return nil, fmt.Errorf("failed to decode export: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.NewDecoder(r).Decode(&export); err != nil {
			return nil, fmt.Errorf("failed to decode export: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, format)
	}
	return &export, nil
}

// WriteExport saves export to path, creating parent directories.
func WriteExport(path string, export *HomeExport) error {
	var buf bytes.Buffer
	if err := EncodeExport(&buf, export, FormatFromPath(path)); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ReadExport loads an export from path.
func ReadExport(path string) (*HomeExport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()
	return DecodeExport(f, FormatFromPath(path))
}

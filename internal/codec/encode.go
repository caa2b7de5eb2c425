package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/strataworks/strata/pkg/types"
)

// Supported document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes the document to w in the given format.
func Encode(w io.Writer, doc *types.Document, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode JSON document: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode YAML document: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown format %q", types.ErrValidation, format)
	}
}

// Decode parses a document from r. A document that cannot be parsed at
// all is a structural failure and returns an error; record-level
// problems are deferred to Import.
func Decode(r io.Reader, format string) (*types.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc types.Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse JSON document: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse YAML document: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", types.ErrValidation, format)
	}
	return &doc, nil
}

// FormatForPath infers the document format from a file extension,
// defaulting to YAML.
func FormatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

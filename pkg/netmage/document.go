// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netmage

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage/types"
	"gopkg.in/yaml.v3"
)

// Document encodings
const (
	DocumentYAML = "yaml"
	DocumentJSON = "json"
)

// DocumentFormatFor picks the encoding from the file extension. Anything
// that is not .json is treated as YAML.
func DocumentFormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DocumentJSON
	default:
		return DocumentYAML
	}
}

// LoadDocument reads an interface document from path
func LoadDocument(path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, errors.Wrap(err, errors.NetworkDocumentReadFailed).
			WithMetadata("path", path)
	}

	doc, err := ParseDocument(data, DocumentFormatFor(path))
	if err != nil {
		if re, ok := err.(*errors.RodentError); ok {
			return types.Document{}, re.WithMetadata("path", path)
		}
		return types.Document{}, err
	}

	return doc, nil
}

// ParseDocument decodes data in the given encoding. Interfaces without an
// id are assigned one.
func ParseDocument(data []byte, format string) (types.Document, error) {
	var doc types.Document

	switch format {
	case DocumentJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return types.Document{}, errors.Wrap(err, errors.NetworkDocumentParseError).
				WithMetadata("format", format)
		}
	case DocumentYAML, "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return types.Document{}, errors.Wrap(err, errors.NetworkDocumentParseError).
				WithMetadata("format", DocumentYAML)
		}
	default:
		return types.Document{}, errors.New(errors.NetworkDocumentFormatInvalid, format)
	}

	doc.Interfaces = EnsureIDs(doc.Interfaces)
	return doc, nil
}

// MarshalDocument encodes doc in the given encoding
func MarshalDocument(doc types.Document, format string) ([]byte, error) {
	switch format {
	case DocumentJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, errors.NetworkDocumentWriteFailed)
		}
		return append(data, '\n'), nil
	case DocumentYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, errors.Wrap(err, errors.NetworkDocumentWriteFailed)
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, errors.NetworkDocumentWriteFailed)
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New(errors.NetworkDocumentFormatInvalid, format)
	}
}

// SaveDocument writes doc to path using the encoding implied by its extension
func SaveDocument(path string, doc types.Document) error {
	data, err := MarshalDocument(doc, DocumentFormatFor(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, errors.NetworkDocumentWriteFailed).
				WithMetadata("path", path)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, errors.NetworkDocumentWriteFailed).
			WithMetadata("path", path)
	}

	return nil
}

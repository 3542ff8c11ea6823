// ABOUTME: Snapshot codecs for JSON and YAML documents.
// ABOUTME: The store encodes the document with a Codec and hands bytes to a Snapshotter.
package storage

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec encodes and decodes snapshot documents.
type Codec interface {
	Name() string
	Encode(doc Document) ([]byte, error)
	Decode(data []byte) (Document, error)
}

// JSONCodec writes indented JSON.
type JSONCodec struct{}

// Name returns "json".
func (JSONCodec) Name() string { return "json" }

// Encode marshals doc as indented JSON.
func (JSONCodec) Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode unmarshals a JSON document.
func (JSONCodec) Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode json: %w", err)
	}
	return doc, nil
}

// YAMLCodec writes YAML.
type YAMLCodec struct{}

// Name returns "yaml".
func (YAMLCodec) Name() string { return "yaml" }

// Encode marshals doc as YAML.
func (YAMLCodec) Encode(doc Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return data, nil
}

// Decode unmarshals a YAML document.
func (YAMLCodec) Decode(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode yaml: %w", err)
	}
	return doc, nil
}

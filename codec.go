package sieve

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Codec defines the deserialization contract for record documents.
// Implement this interface to use alternative formats like TOML, CSV, or custom binary formats.
type Codec interface {
	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// HuJSONCodec implements Codec for JSON with comments and trailing commas
// (JWCC), handy for hand-edited record files.
type HuJSONCodec struct{}

// Unmarshal standardizes data to plain JSON and decodes it into v.
func (HuJSONCodec) Unmarshal(data []byte, v any) error {
	std, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(std, v)
}

// ContentType returns the JWCC MIME type.
func (HuJSONCodec) ContentType() string {
	return "application/jwcc"
}

// CodecFor picks a codec from a file extension: .yaml/.yml use YAMLCodec,
// .jsonc/.hujson use HuJSONCodec, everything else JSONCodec.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}
	case ".jsonc", ".hujson":
		return HuJSONCodec{}
	default:
		return JSONCodec{}
	}
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
	_ Codec = HuJSONCodec{}
)

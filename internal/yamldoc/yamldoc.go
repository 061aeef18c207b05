// Package yamldoc reads schema-checked YAML documents, optionally zstd-compressed.
package yamldoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// CompressedExt marks zstd-compressed documents.
const CompressedExt = ".zst"

// ReadFile returns the contents of path, decompressing it when it ends in CompressedExt.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, CompressedExt) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Schema is a lazily compiled JSON schema for YAML documents.
type Schema struct {
	name   string
	source string

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewSchema wraps a JSON schema source. Compilation happens on first use.
func NewSchema(name, source string) *Schema {
	return &Schema{name: name, source: source}
}

// Validate checks YAML data against the schema.
func (s *Schema) Validate(data []byte) error {
	s.once.Do(func() {
		s.compiled, s.err = jsonschema.CompileString(s.name, s.source)
	})
	if s.err != nil {
		return fmt.Errorf("compiling schema %s: %w", s.name, s.err)
	}

	doc, err := toJSONValue(data)
	if err != nil {
		return err
	}
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema %s: %w", s.name, err)
	}
	return nil
}

// Decode validates data against schema and unmarshals it into out. Keys absent from the
// document keep the values already in out.
func Decode(schema *Schema, data []byte, out any) error {
	if err := schema.Validate(data); err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// toJSONValue decodes YAML into the plain JSON value tree the validator expects.
func toJSONValue(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting yaml to json: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// WriteFile writes data to path, compressing it when path ends in CompressedExt.
func WriteFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if !strings.HasSuffix(path, CompressedExt) {
		_, err = f.Write(data)
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema.json"

// Format is the encoding of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension. Unknown extensions are
// treated as YAML, which also accepts JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// JSONSchema returns the embedded JSON schema of run documents.
func JSONSchema() []byte {
	return bytes.Clone(schemaJSON)
}

// Load reads, validates and decodes a document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse validates and decodes a document.
func Parse(data []byte, format Format) (*Document, error) {
	raw, err := normalize(data, format)
	if err != nil {
		return nil, err
	}

	schema, err := compiled()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, schemaErrors(err)
	}

	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// normalize turns YAML or JSON into the generic JSON value model, with
// numbers kept as json.Number.
func normalize(data []byte, format Format) (any, error) {
	if format == FormatYAML {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		data = converted
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return raw, nil
}

// schemaErrors flattens a jsonschema failure into validation errors.
func schemaErrors(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	var errs []error
	for _, unit := range verr.BasicOutput().Errors {
		if unit.Error == "" || strings.HasPrefix(unit.Error, "doesn't validate with") {
			continue
		}
		key := unit.InstanceLocation
		if key == "" {
			key = "/"
		}
		errs = append(errs, &ValidationError{Key: key, Reason: unit.Error})
	}
	if len(errs) == 0 {
		errs = append(errs, &ValidationError{Key: "/", Reason: verr.Message})
	}
	return &AggregateError{Errors: errs}
}

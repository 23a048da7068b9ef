// Package schema validates loosely typed JSON documents (change feed rows,
// request bodies) against the schemas embedded in this package before they
// are decoded into domain types.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	NotificationEvent = "notification_event"
	ListingCreate     = "listing_create"
)

var (
	ErrUnknownSchema = errors.New("unknown schema")
	ErrInvalid       = errors.New("document does not match schema")
)

//go:embed schemas/*.json
var schemaFS embed.FS

var compiled = mustCompile()

func mustCompile() map[string]*jsonschema.Schema {
	schemas, err := compile(schemaFS)
	if err != nil {
		panic(err)
	}
	return schemas
}

func compile(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	entries, err := fs.ReadDir(fsys, "schemas")
	if err != nil {
		return nil, err
	}

	schemas := make(map[string]*jsonschema.Schema, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		file := path.Join("schemas", entry.Name())
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(file, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", file, err)
		}
		schema, err := compiler.Compile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", file, err)
		}
		schemas[strings.TrimSuffix(entry.Name(), ".json")] = schema
	}

	return schemas, nil
}

// Validate checks body against the named schema.
func Validate(name string, body []byte) error {
	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: body is not valid JSON: %v", ErrInvalid, err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, describe(err))
	}
	return nil
}

// Decode validates body against the named schema and only then unmarshals it
// into dst.
func Decode(name string, body []byte, dst interface{}) error {
	if err := Validate(name, body); err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

// describe flattens a validation error into its leaf causes, which read
// better in API responses than the nested default output.
func describe(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}

	var leaves []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "/"
			}
			leaves = append(leaves, fmt.Sprintf("%s: %s", location, e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return strings.Join(leaves, "; ")
}

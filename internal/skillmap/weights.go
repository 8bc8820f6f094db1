package skillmap

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

//go:embed weights.json
var defaultWeightsJSON []byte

//go:embed weights.schema.json
var weightsSchemaJSON []byte

// ErrInvalidTable wraps every weight table load failure.
var ErrInvalidTable = errors.New("invalid weight table")

// TableError describes why a weight table was rejected.
type TableError struct {
	Source string
	Err    error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("weight table %s: %v", e.Source, e.Err)
}

func (e *TableError) Unwrap() []error { return []error{ErrInvalidTable, e.Err} }

// Table is a versioned feature-to-skill weight table.
type Table struct {
	Version         string                        `json:"version"`
	TaxonomyVersion string                        `json:"taxonomy_version"`
	Weights         map[Feature]map[string]float64 `json:"weights"`
}

// Format is a weight table encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported weight table extension %q", filepath.Ext(path))
	}
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// DefaultTable returns the embedded weight table.
func DefaultTable() *Table {
	defaultOnce.Do(func() {
		t, err := ParseTable(defaultWeightsJSON, FormatJSON, "embedded")
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// LoadTable reads and validates a weight table from disk.
func LoadTable(path string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &TableError{Source: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TableError{Source: path, Err: fmt.Errorf("read: %w", err)}
	}
	return ParseTable(data, format, path)
}

// ParseTable decodes data in the given format, validates it against the
// table schema and checks versions and feature names. source only labels
// errors.
func ParseTable(data []byte, format Format, source string) (*Table, error) {
	doc, err := normalize(data, format)
	if err != nil {
		return nil, &TableError{Source: source, Err: err}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, &TableError{Source: source, Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &TableError{Source: source, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &TableError{Source: source, Err: err}
	}
	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, &TableError{Source: source, Err: fmt.Errorf("decode: %w", err)}
	}
	if err := t.validate(); err != nil {
		return nil, &TableError{Source: source, Err: err}
	}
	return &t, nil
}

// normalize decodes any supported format into the generic value shape
// produced by encoding/json.
func normalize(data []byte, format Format) (any, error) {
	var generic any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return generic, nil
	case FormatTOML:
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		generic = m
	case FormatYAML:
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		generic = m
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	raw, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", format, err)
	}
	var out any
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&out); err != nil {
		return nil, fmt.Errorf("normalize %s: %w", format, err)
	}
	return out, nil
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(weightsSchemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://weight-table.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(url)
	})
	return schemaCompiled, schemaErr
}

func (t *Table) validate() error {
	var errs []string
	if !semver.IsValid(t.Version) {
		errs = append(errs, fmt.Sprintf("version %q is not a semantic version", t.Version))
	}
	if !semver.IsValid(t.TaxonomyVersion) {
		errs = append(errs, fmt.Sprintf("taxonomy_version %q is not a semantic version", t.TaxonomyVersion))
	} else if semver.Major(t.TaxonomyVersion) != semver.Major(TaxonomyVersion) {
		errs = append(errs, fmt.Sprintf("taxonomy_version %s does not match compiled taxonomy %s", t.TaxonomyVersion, TaxonomyVersion))
	}
	for f := range t.Weights {
		if !f.Known() {
			errs = append(errs, fmt.Sprintf("unknown feature %q", f))
		}
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// UnknownSkills lists skill ids referenced by the table but missing from
// the taxonomy. They are ignored when mapping.
func (t *Table) UnknownSkills() []string {
	seen := make(map[string]bool)
	var out []string
	for _, skills := range t.Weights {
		for id := range skills {
			if _, ok := SkillByID(id); !ok && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Newer reports whether t has a higher version than other.
func (t *Table) Newer(other *Table) bool {
	return semver.Compare(t.Version, other.Version) > 0
}

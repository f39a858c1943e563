package types

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// document is the file layout: either a top-level list or a "types" key.
type document struct {
	Types []TypeDefinition `yaml:"types"`
}

// Parse decodes YAML or JSON type definitions and validates them.
// source labels errors.
func Parse(data []byte, source string) ([]TypeDefinition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fieldErr(source, "", "empty document")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Source: source, Reason: "malformed document", Err: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fieldErr(source, "", "empty document")
	}

	var defs []TypeDefinition
	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&defs); err != nil {
			return nil, &ParseError{Source: source, Field: "types", Reason: "malformed definition", Err: err}
		}
	case yaml.MappingNode:
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, &ParseError{Source: source, Field: "types", Reason: "malformed definition", Err: err}
		}
		defs = doc.Types
	default:
		return nil, fieldErr(source, "", "expected a list of types or a mapping with a types key")
	}

	if len(defs) == 0 {
		return nil, fieldErr(source, "types", "no type definitions")
	}

	seen := make(map[string]struct{}, len(defs))
	for i := range defs {
		if err := Validate(&defs[i], source, fmt.Sprintf("types[%d]", i)); err != nil {
			return nil, err
		}
		if _, dup := seen[defs[i].ID]; dup {
			return nil, fieldErr(source, fmt.Sprintf("types[%d].id", i), "duplicate type id %q", defs[i].ID)
		}
		seen[defs[i].ID] = struct{}{}
	}
	return defs, nil
}

// ParseFile reads and parses one definition file.
func ParseFile(path string) ([]TypeDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Source: path, Reason: "cannot read file", Err: err}
	}
	return Parse(data, path)
}

// LoadFiles parses paths concurrently. The result keeps argument order and
// rejects a type id declared by more than one file.
func LoadFiles(ctx context.Context, paths ...string) ([]TypeDefinition, error) {
	results := make([][]TypeDefinition, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defs, err := ParseFile(path)
			if err != nil {
				return err
			}
			results[i] = defs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(results...)
}

// Merge concatenates definition sets, rejecting duplicate ids.
func Merge(sets ...[]TypeDefinition) ([]TypeDefinition, error) {
	var out []TypeDefinition
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, def := range set {
			if _, dup := seen[def.ID]; dup {
				return nil, fieldErr("merge", "id", "type %q is defined more than once", def.ID)
			}
			seen[def.ID] = struct{}{}
			out = append(out, def)
		}
	}
	return out, nil
}

package tree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Load reads a tree file. The format is chosen by extension: .yaml and .yml
// are YAML, everything else is JSON. Missing ids are derived from names and
// the result is validated.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	root, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return root, nil
}

// Format names a tree file encoding.
type Format string

// Supported tree encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a tree from data in the given format.
func Parse(data []byte, format Format) (*Node, error) {
	var root Node
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &root)
	case FormatJSON:
		err = json.Unmarshal(data, &root)
	default:
		return nil, fmt.Errorf("unsupported tree format %q", format)
	}
	if err != nil {
		return nil, err
	}
	assignIDs(&root, "")
	if err := Validate(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// LoadIntegrations loads one tree file per storage integration concurrently
// and aggregates them under a synthetic root. Services keep argument order.
// The first failing file cancels the remaining loads.
func LoadIntegrations(ctx context.Context, paths ...string) (*Node, error) {
	services := make([]*Node, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := Load(p)
			if err != nil {
				return err
			}
			services[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(services) == 1 && services[0].ID == RootID {
		return services[0], nil
	}
	root := Aggregate(services...)
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

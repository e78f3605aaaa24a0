package layout

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Marshal serializes a layout to pretty-printed JSON.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal parses a layout and checks that it has nodes and that every edge
// joins two of them.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Nodes) == 0 {
		return Layout{}, ErrEmptyLayout
	}
	known := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		known[n.ID] = true
	}
	for _, e := range l.Edges {
		if !known[e.Source] || !known[e.Target] {
			return Layout{}, fmt.Errorf("%w: %s -> %s", ErrUnknownNode, e.Source, e.Target)
		}
	}
	return l, nil
}

// WriteFile writes a layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// Package render holds output format names and the SVG conversion helpers
// shared by the diagram renderers.
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg; SVG is
// produced in-process by the subpackages.
//
// # Subpackages
//
//   - [github.com/matzehuels/canopy/pkg/render/nodelink]: Graphviz
//     node-link diagrams with pinned positions
package render

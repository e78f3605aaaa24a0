// Package nodelink renders a positioned folder-tree layout as a node-link
// diagram using Graphviz.
//
// # Usage
//
// Convert a layout to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Pinned Positions
//
// Unlike a free Graphviz drawing, the diagram reproduces the canvas exactly.
// [ToDOT] selects the neato engine, sets inputscale=72 so positions are read
// in points, and pins every node with pos="x,-y!". Node boxes use the layout
// width and height with fixedsize=true.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink

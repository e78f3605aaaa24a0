// Package grid provides the geometry shared by the layout compiler and the
// drag engine: grid snapping, direction-aware minimum-gap snapping, branch
// bounding boxes, parent-relative quadrants and depth-wide vertical
// separation.
//
// # Coordinates
//
// A node position is the top-left corner of its box. Y grows downward, so a
// child "below" its parent has a positive Δy. Every node has the same box
// size ([Grid.NodeWidth] × [Grid.NodeHeight]); the size is only used for
// bounding-box math.
//
// # Snapping
//
//	g := grid.New(config.DefaultLayout())
//	g.Snap(27)                       // 20
//	g.SnapUp(21)                     // 40
//	g.SnapWithMinimum(50, 0, 80, +1) // 80
//
// All functions in this package are pure apart from the ones that take a
// [Positions] map, which they update in place.
package grid

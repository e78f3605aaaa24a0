// Package pkg provides the core libraries for canopy, an interactive layout
// engine for folder trees gathered from storage integrations.
//
// # Overview
//
// A folder tree is compiled into a grid-aligned cascade: each child sits one
// horizontal gap right of its parent, and siblings stack downward so that no
// two subtrees overlap. Users then drag nodes around; while they drag, the
// engine keeps related nodes in formation, and on release it snaps every
// affected node back onto the grid while preserving the parent gap and the
// separation between sibling branches.
//
// # Architecture
//
// The typical data flow through canopy:
//
//	Integration tree files (JSON/YAML)
//	         ↓
//	    [tree] package (load, aggregate, index)
//	         ↓
//	    [layout] package (compile visible nodes onto the grid)
//	         ↓
//	    [positions] package (overlay manual positions)
//	         ↓
//	    [drag] package (live frames and settling)
//	         ↓
//	    JSON / DOT / SVG output, HTTP or terminal canvas
//
// [canvas] ties these together for one view.
//
// # Quick Start
//
//	root, _ := tree.LoadIntegrations(ctx, "drive.yaml", "box.json")
//
//	cv := canvas.New(config.DefaultLayout())
//	cv.SetTree(root)
//	cv.OnToggle("drive")
//
//	cv.OnDrag("drive", grid.Point{X: 200, Y: 150})
//	cv.Tick()
//	res, _ := cv.OnDragStop("drive", grid.Point{X: 200, Y: 190})
//
//	l := cv.Snapshot()
//
// # Main Packages
//
// [tree] - Folder tree model, file loading, and the lookup index (parents,
// children, depths, memoized descendants).
//
// [grid] - Grid snapping, quadrants, branch bounds and depth separation.
//
// [visibility] - Expansion flags and custom sibling order.
//
// [layout] - The static compiler and the layout wire format.
//
// [drag] - The drag session engine: scope resolution, frame coalescing,
// live repositioning and settle.
//
// [positions] - Manual position store.
//
// [canvas] - One interactive view.
//
// ## Supporting Packages
//
// [config] - TOML configuration for all tunables.
//
// [errors] - Structured error codes.
//
// [observability] - Hooks for compile, drag and cache metrics.
//
// [cache] - Rendered artifact cache.
//
// [render/nodelink] - Graphviz export with pinned positions.
//
// [buildinfo] - Version information set at build time.
package pkg

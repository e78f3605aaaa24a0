// Package layout compiles a folder tree into positioned nodes and edges.
//
// # Overview
//
// [Compile] is the static layout compiler: given the tree, the expansion
// state and an optional custom sibling order it places every visible node
// depth-first in a vertical cascade. The root sits at the origin, each depth
// level is indented by the horizontal gap, and each node takes the next row
// below the deepest row used so far, one vertical gap further down:
//
//	root
//	    drive
//	        docs
//	            cv.pdf
//	        photos
//	    box
//
// Collapsed nodes are emitted as leaves that keep their real child count so
// the caller can toggle them later.
//
// Compilation is deterministic and has no hidden state: the same inputs
// always produce byte-identical output from [Marshal].
//
// # Serialization
//
// [Marshal], [Unmarshal], [WriteFile] and [ReadFile] convert layouts to and
// from the JSON format served by the HTTP boundary and written by the CLI.
package layout

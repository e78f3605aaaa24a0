// Package tree provides the rooted folder/file tree consumed by the canvas and
// the lookup index built from it.
//
// # Overview
//
// A canopy tree aggregates the folders of several storage integrations under
// one synthetic root. Every top-level child of the root is a "service" node
// (one per integration); everything below is that integration's folder
// hierarchy. Trees are values: once built for a data snapshot they are never
// mutated, and edits (filtering, reloading) produce a new tree.
//
// # Index
//
// [Index] is the input-scoped lookup object derived from a tree snapshot. It
// answers parent, children, depth, top-ancestor and descendant queries in
// O(1) or O(branch) time and memoizes descendant lists for the lifetime of
// the index value. Build a new index whenever the tree changes; there are no
// package-level caches.
//
//	root, err := tree.Load("drive.json")
//	if err != nil {
//	    return err
//	}
//	idx := tree.NewIndex(root)
//	idx.Descendants("drive/photos") // breadth-first, excludes the id itself
//
// An index can also be built from a flat (id, parent) listing with
// [NewIndexFromParents]; the drag engine uses this for the visible subset of
// a layout.
//
// # Loading
//
// [Load] reads JSON or YAML tree files. [LoadIntegrations] loads several
// integration files concurrently and aggregates them under a synthetic root.
// Cyclic structures cannot be expressed in the file format; [Validate]
// rejects empty and duplicate ids.
package tree

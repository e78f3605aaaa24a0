package tree

// Index is a lookup table over one tree snapshot: parent and children maps,
// depths, and memoized breadth-first descendant lists.
//
// The zero value is not usable; build one with [NewIndex] or
// [NewIndexFromParents]. An Index is not safe for concurrent use because
// descendant queries populate the memo.
type Index struct {
	root     string
	order    []string            // pre-order ids
	parent   map[string]string   // id -> parent id ("" for the root)
	children map[string][]string // id -> child ids in tree order
	depth    map[string]int
	nodes    map[string]*Node // nil entries for indexes built from parents
	memo     map[string][]string
}

// NewIndex builds the index for the tree rooted at root in O(n).
// A nil root yields an empty index.
func NewIndex(root *Node) *Index {
	idx := newIndex()
	if root == nil {
		return idx
	}
	idx.root = root.ID
	Walk(root, func(n *Node, depth int) bool {
		idx.order = append(idx.order, n.ID)
		idx.nodes[n.ID] = n
		idx.depth[n.ID] = depth
		if _, ok := idx.parent[n.ID]; !ok {
			idx.parent[n.ID] = ""
		}
		for _, c := range n.Children {
			idx.parent[c.ID] = n.ID
			idx.children[n.ID] = append(idx.children[n.ID], c.ID)
		}
		return true
	})
	return idx
}

// NewIndexFromParents builds an index from a flat listing. ids must list every
// node with parents before children (pre-order, as produced by a layout);
// parents maps each id to its parent id, with "" marking the root. Children
// keep the relative order in which they appear in ids. Entries whose parent is
// not listed are treated as additional roots.
func NewIndexFromParents(ids []string, parents map[string]string) *Index {
	idx := newIndex()
	for _, id := range ids {
		p := parents[id]
		if _, ok := idx.depth[p]; p == "" || !ok {
			if idx.root == "" {
				idx.root = id
			}
			idx.parent[id] = ""
			idx.depth[id] = 0
		} else {
			idx.parent[id] = p
			idx.depth[id] = idx.depth[p] + 1
			idx.children[p] = append(idx.children[p], id)
		}
		idx.order = append(idx.order, id)
		idx.nodes[id] = nil
	}
	return idx
}

func newIndex() *Index {
	return &Index{
		parent:   make(map[string]string),
		children: make(map[string][]string),
		depth:    make(map[string]int),
		nodes:    make(map[string]*Node),
		memo:     make(map[string][]string),
	}
}

// Root returns the root id, or "" for an empty index.
func (x *Index) Root() string { return x.root }

// Len returns the number of indexed nodes.
func (x *Index) Len() int { return len(x.order) }

// IDs returns all ids in pre-order. The slice must not be modified.
func (x *Index) IDs() []string { return x.order }

// Contains reports whether id is part of the indexed tree.
func (x *Index) Contains(id string) bool {
	_, ok := x.depth[id]
	return ok
}

// Parent returns the parent id and true, or "" and false for the root and
// unknown ids.
func (x *Index) Parent(id string) (string, bool) {
	p, ok := x.parent[id]
	if !ok || p == "" {
		return "", false
	}
	return p, true
}

// Children returns the child ids of id in tree order. The returned slice
// should not be modified.
func (x *Index) Children(id string) []string { return x.children[id] }

// ChildNodes returns the child nodes of id. It returns nil for indexes built
// with [NewIndexFromParents], which carry no node payloads.
func (x *Index) ChildNodes(id string) []*Node {
	n := x.nodes[id]
	if n == nil {
		return nil
	}
	return n.Children
}

// Node returns the tree node for id, if the index was built from a tree.
func (x *Index) Node(id string) (*Node, bool) {
	n, ok := x.nodes[id]
	return n, ok && n != nil
}

// Depth returns the depth of id (root = 0) and whether id is known.
func (x *Index) Depth(id string) (int, bool) {
	d, ok := x.depth[id]
	return d, ok
}

// ChildCount returns the number of children of id in the indexed tree.
func (x *Index) ChildCount(id string) int { return len(x.children[id]) }

// TopAncestor returns the depth-1 ancestor of id (the service it belongs to).
// For a depth-1 node this is the node itself; the root and unknown ids return
// false.
func (x *Index) TopAncestor(id string) (string, bool) {
	d, ok := x.depth[id]
	if !ok || d == 0 {
		return "", false
	}
	for d > 1 {
		id = x.parent[id]
		d--
	}
	return id, true
}

// Descendants returns every descendant of id in breadth-first order,
// excluding id itself. Results are memoized per index.
func (x *Index) Descendants(id string) []string {
	if ids, ok := x.memo[id]; ok {
		return ids
	}
	var out []string
	queue := append([]string(nil), x.children[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		queue = append(queue, x.children[cur]...)
	}
	x.memo[id] = out
	return out
}

// Branch returns id followed by all of its descendants.
func (x *Index) Branch(id string) []string {
	if !x.Contains(id) {
		return nil
	}
	return append([]string{id}, x.Descendants(id)...)
}

// IsAncestor reports whether anc is a strict ancestor of id.
func (x *Index) IsAncestor(anc, id string) bool {
	for {
		p, ok := x.Parent(id)
		if !ok {
			return false
		}
		if p == anc {
			return true
		}
		id = p
	}
}

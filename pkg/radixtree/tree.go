// Package radixtree builds the binary prefix tree the search tree emitter
// walks in stage 4. Each edge is labeled 0 or 1; the path from the root to
// any leaf equals that leaf's CIDR prefix bits, most-significant bit first.
//
// The tree is represented as a contiguous arena of nodes addressed by
// integer index rather than as a pointer-linked structure: each node slot
// is a tagged variant, either empty, an internal node (indexing two more
// arena slots), or a leaf (holding a payload-key). This removes pointer
// chasing and makes the emitter's node-index assignment (stage 4) simply
// the arena's insertion order.
package radixtree

// noChild marks a child slot of a Node that has neither a subtree nor a
// leaf under it.
const noChild = -1

// Node is one slot of the arena. A slot with IsLeaf[x] false and
// Child[x] == noChild has no data on that side; the emitter encodes that
// as the "not found" sentinel.
type Node struct {
	// Child[0] and Child[1] index another arena slot when the
	// corresponding IsLeaf flag is false and the value is != noChild.
	Child [2]int
	// IsLeaf[x] reports whether side x is a leaf rather than an internal
	// node; if so, Leaf[x] holds its payload-key.
	IsLeaf [2]bool
	Leaf   [2]string
}

func emptyNode() Node {
	return Node{Child: [2]int{noChild, noChild}}
}

// Tree is a binary radix tree over IPv4 prefix bits, stored as an arena of
// Nodes. Node 0 is always the root, created lazily on first use.
type Tree struct {
	nodes []Node
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{}
}

func (t *Tree) ensureRoot() {
	if len(t.nodes) == 0 {
		t.nodes = append(t.nodes, emptyNode())
	}
}

// Insert attaches payloadKey at the position described by bitsStr (a
// string of '0'/'1' characters, most-significant bit first, of length
// 0..32). A /0 entry (empty bitsStr) attaches payloadKey to both sides of
// the root directly. Two insertions of the same bits collide; the later
// call wins, since duplicates are expected to be absent after CIDR
// minimization upstream.
func (t *Tree) Insert(bitsStr string, payloadKey string) {
	t.ensureRoot()

	if len(bitsStr) == 0 {
		t.nodes[0].Child[0], t.nodes[0].Child[1] = noChild, noChild
		t.nodes[0].IsLeaf[0], t.nodes[0].IsLeaf[1] = true, true
		t.nodes[0].Leaf[0], t.nodes[0].Leaf[1] = payloadKey, payloadKey
		return
	}

	cur := 0
	for i := 0; i < len(bitsStr); i++ {
		side := bitsStr[i] - '0'
		last := i == len(bitsStr)-1

		if last {
			t.nodes[cur].Child[side] = noChild
			t.nodes[cur].IsLeaf[side] = true
			t.nodes[cur].Leaf[side] = payloadKey
			return
		}

		if t.nodes[cur].IsLeaf[side] {
			// A shorter prefix was previously inserted along this path;
			// the later write wins, so descend past the stale leaf to
			// make room for the longer prefix's subtree.
			t.nodes[cur].IsLeaf[side] = false
			t.nodes[cur].Leaf[side] = ""
			t.nodes[cur].Child[side] = noChild
		}

		if t.nodes[cur].Child[side] == noChild {
			t.nodes = append(t.nodes, emptyNode())
			t.nodes[cur].Child[side] = len(t.nodes) - 1
		}
		cur = t.nodes[cur].Child[side]
	}
}

// NodeCount returns the number of internal nodes in the tree, including
// the root, which always exists once at least one Insert has happened (or
// is synthesized by Nodes on an empty tree).
func (t *Tree) NodeCount() int {
	if len(t.nodes) == 0 {
		return 1
	}
	return len(t.nodes)
}

// Nodes returns the arena in insertion (node-index) order. Index 0 is
// always the root node.
func (t *Tree) Nodes() []Node {
	if len(t.nodes) == 0 {
		return []Node{emptyNode()}
	}
	return t.nodes
}

// Empty reports whether side has neither a leaf nor a subtree under it,
// the "no data" case the emitter must encode with its sentinel.
func (n Node) Empty(side int) bool {
	return !n.IsLeaf[side] && n.Child[side] == noChild
}

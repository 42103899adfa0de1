package session

import (
	"strings"

	"pkt.systems/pslog"
)

// typeOrder ranks window types in the tree. Unlisted types rank -1 and so
// sort ahead of every listed type.
var typeOrder = []string{TypeGlobal, TypeServer, TypeRaw, TypeChannel, TypeQuery}

func typeRank(t string) int {
	if t == "globalwindow" {
		t = TypeGlobal
	}
	for i, v := range typeOrder {
		if v == t {
			return i
		}
	}
	return -1
}

// compareNodes orders by type rank, then case-insensitive name.
func compareNodes(a, b *Node) int {
	if ra, rb := typeRank(a.Type), typeRank(b.Type); ra != rb {
		return ra - rb
	}
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// Node is one entry of the window tree.
type Node struct {
	ID       string
	Name     string
	Type     string
	Children []*Node

	parent *Node
}

// Row is a flattened tree entry ready for rendering.
type Row struct {
	ID     string
	Name   string
	Type   string
	Depth  int
	Active bool
}

// Tree is the ordered window tree.
type Tree struct {
	roots  []*Node
	index  map[string]*Node
	active string
	logger pslog.Logger
}

func NewTree(logger pslog.Logger) *Tree {
	return &Tree{index: make(map[string]*Node), logger: logger}
}

// Add inserts a window under parentID, or at the root when parentID is
// empty. An unknown parent attaches the node at the root. Adding an id that
// already exists renames and re-sorts it in place, keeping its children.
func (t *Tree) Add(name, id, typ, parentID string) {
	if n, ok := t.index[id]; ok {
		siblings := t.siblingsOf(n)
		*siblings = removeNode(*siblings, n)
		n.Name, n.Type = name, typ
		*siblings = insertSorted(*siblings, n)
		return
	}

	n := &Node{ID: id, Name: name, Type: typ}
	t.index[id] = n

	if parentID == "" {
		t.roots = insertSorted(t.roots, n)
		return
	}
	parent, ok := t.index[parentID]
	if !ok {
		t.logger.Warn("tree parent missing, attaching at root", "window", id, "parent", parentID)
		t.roots = insertSorted(t.roots, n)
		return
	}
	n.parent = parent
	parent.Children = insertSorted(parent.Children, n)
}

// insertSorted places n after the last sibling that sorts before it, or at
// the front if there is none.
func insertSorted(list []*Node, n *Node) []*Node {
	pos := 0
	for i, c := range list {
		if compareNodes(c, n) < 0 {
			pos = i + 1
		}
	}
	list = append(list, nil)
	copy(list[pos+1:], list[pos:])
	list[pos] = n
	return list
}

func removeNode(list []*Node, n *Node) []*Node {
	for i, c := range list {
		if c == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func (t *Tree) siblingsOf(n *Node) *[]*Node {
	if n.parent != nil {
		return &n.parent.Children
	}
	return &t.roots
}

// Remove deletes id and its subtree. It returns every removed id, the
// node itself first.
func (t *Tree) Remove(id string) []string {
	n, ok := t.index[id]
	if !ok {
		return nil
	}
	siblings := t.siblingsOf(n)
	*siblings = removeNode(*siblings, n)

	var removed []string
	var walk func(*Node)
	walk = func(n *Node) {
		removed = append(removed, n.ID)
		delete(t.index, n.ID)
		if t.active == n.ID {
			t.active = ""
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return removed
}

// SetActive marks id as the active node. It returns false if id is not in
// the tree; the previous selection is kept in that case.
func (t *Tree) SetActive(id string) bool {
	if _, ok := t.index[id]; !ok {
		return false
	}
	t.active = id
	return true
}

// ClearActive deselects every node.
func (t *Tree) ClearActive() {
	t.active = ""
}

func (t *Tree) Active() string {
	return t.active
}

func (t *Tree) Contains(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Parent returns the parent id of id, or "" for roots and unknown ids.
func (t *Tree) Parent(id string) string {
	n, ok := t.index[id]
	if !ok || n.parent == nil {
		return ""
	}
	return n.parent.ID
}

func (t *Tree) Len() int {
	return len(t.index)
}

// Flatten returns the tree in display order with depths.
func (t *Tree) Flatten() []Row {
	rows := make([]Row, 0, len(t.index))
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			rows = append(rows, Row{ID: n.ID, Name: n.Name, Type: n.Type, Depth: depth, Active: n.ID == t.active})
			walk(n.Children, depth+1)
		}
	}
	walk(t.roots, 0)
	return rows
}

// Package tree implements the SR content tree as an arena of nodes addressed by
// stable integer handles.
//
// Removing a subtree never shifts sibling slices: removed nodes are marked
// detached and skipped by every traversal. A NodeID obtained before a removal
// therefore keeps pointing at the same node afterwards.
package tree

import (
	"errors"
	"fmt"

	"github.com/mrsinham/srforge/internal/sr/code"
)

// NodeID is a stable handle to a node. The zero value means "no node".
type NodeID int

// None is returned by lookups that found nothing.
const None NodeID = 0

// ValueType is the SR content item value type.
type ValueType string

const (
	Container ValueType = "CONTAINER"
	Code      ValueType = "CODE"
	Num       ValueType = "NUM"
	Text      ValueType = "TEXT"
	UIDRef    ValueType = "UIDREF"
	PName     ValueType = "PNAME"
	Date      ValueType = "DATE"
	Image     ValueType = "IMAGE"
	Composite ValueType = "COMPOSITE"
)

// Relationship is the relationship of a content item to its parent.
type Relationship string

const (
	Contains      Relationship = "CONTAINS"
	HasObsContext Relationship = "HAS OBS CONTEXT"
	HasConceptMod Relationship = "HAS CONCEPT MOD"
	HasProperties Relationship = "HAS PROPERTIES"
	HasAcqContext Relationship = "HAS ACQ CONTEXT"
	InferredFrom  Relationship = "INFERRED FROM"
	SelectedFrom  Relationship = "SELECTED FROM"
)

// Reference points at a composite object, optionally at segments within it.
type Reference struct {
	SOPClassUID    string
	SOPInstanceUID string
	Segments       []int
}

// Item is the content of one node.
type Item struct {
	Relationship Relationship
	ValueType    ValueType
	Concept      code.CodedEntry

	// TemplateID is set on containers that are the root of a template.
	TemplateID string
	// Annotation marks the template row a node was instantiated from.
	Annotation string

	Code      code.CodedEntry // CODE
	Text      string          // TEXT, UIDREF, PNAME, DATE
	Numeric   string          // NUM
	Units     code.CodedEntry // NUM
	Reference *Reference      // IMAGE, COMPOSITE
}

type node struct {
	item     Item
	parent   NodeID
	index    int // position in parent's children slice
	children []NodeID
	detached bool
}

// ErrRootRemoval is returned when asked to remove the root node.
var ErrRootRemoval = errors.New("cannot remove the root node")

// Tree is an SR content tree. The zero value is not usable; call New.
type Tree struct {
	nodes []node // nodes[0] is a sentinel so that None is never a valid handle
	root  NodeID
}

// New creates a tree whose root holds item.
func New(root Item) *Tree {
	t := &Tree{nodes: make([]node, 1, 64)}
	t.nodes = append(t.nodes, node{item: root})
	t.root = NodeID(1)
	return t
}

// Root returns the root handle.
func (t *Tree) Root() NodeID {
	return t.root
}

func (t *Tree) valid(id NodeID) bool {
	return id > None && int(id) < len(t.nodes)
}

// AddChild appends item as the last child of parent and returns its handle.
func (t *Tree) AddChild(parent NodeID, item Item) (NodeID, error) {
	if !t.Attached(parent) {
		return None, fmt.Errorf("add child: parent %d is not an attached node", parent)
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		item:   item,
		parent: parent,
		index:  len(t.nodes[parent].children),
	})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id, nil
}

// Item returns the content of id. The zero Item is returned for unknown handles.
func (t *Tree) Item(id NodeID) Item {
	if !t.valid(id) {
		return Item{}
	}
	return t.nodes[id].item
}

// Parent returns the parent of id, or None for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return None
	}
	return t.nodes[id].parent
}

// Attached reports whether id is a node that has not been removed.
func (t *Tree) Attached(id NodeID) bool {
	return t.valid(id) && !t.nodes[id].detached
}

// Children returns the attached children of id in insertion order.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.Attached(id) {
		return nil
	}
	out := make([]NodeID, 0, len(t.nodes[id].children))
	for _, c := range t.nodes[id].children {
		if !t.nodes[c].detached {
			out = append(out, c)
		}
	}
	return out
}

// FindChild returns the first attached direct child of parent whose concept
// name matches concept, or None.
func (t *Tree) FindChild(parent NodeID, concept code.CodedEntry) NodeID {
	for _, c := range t.Children(parent) {
		if t.nodes[c].item.Concept.Matches(concept) {
			return c
		}
	}
	return None
}

// RemoveSubtree detaches id and all its descendants and returns how many
// nodes were detached. Handles stay valid; Attached reports false for them.
func (t *Tree) RemoveSubtree(id NodeID) (int, error) {
	if id == t.root {
		return 0, ErrRootRemoval
	}
	if !t.Attached(id) {
		return 0, nil
	}
	removed := 0
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t.nodes[cur].detached {
			continue
		}
		t.nodes[cur].detached = true
		removed++
		stack = append(stack, t.nodes[cur].children...)
	}
	return removed, nil
}

// Next returns the attached node following id in depth-first pre-order, or
// None at the end of the tree.
func (t *Tree) Next(id NodeID) NodeID {
	if !t.Attached(id) {
		return None
	}
	for _, c := range t.nodes[id].children {
		if !t.nodes[c].detached {
			return c
		}
	}
	return t.nextAfter(id)
}

// nextAfter returns the first attached node following the subtree of id. It
// also works for detached nodes, because parent links and sibling positions
// are never rewritten.
func (t *Tree) nextAfter(id NodeID) NodeID {
	if !t.valid(id) {
		return None
	}
	for cur := id; cur != t.root && cur != None; cur = t.nodes[cur].parent {
		p := t.nodes[cur].parent
		siblings := t.nodes[p].children
		for i := t.nodes[cur].index + 1; i < len(siblings); i++ {
			if !t.nodes[siblings[i]].detached {
				return siblings[i]
			}
		}
	}
	return None
}

// Walk visits attached nodes in pre-order. Returning false from fn skips the
// node's descendants.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		if !fn(id, depth) {
			return
		}
		for _, c := range t.Children(id) {
			visit(c, depth+1)
		}
	}
	visit(t.root, 0)
}

// Len returns the number of attached nodes.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(NodeID, int) bool {
		n++
		return true
	})
	return n
}

package tree

// Cursor is a position in a tree that survives subtree removal. Searches
// resume from the current position instead of restarting at the root.
type Cursor struct {
	t   *Tree
	cur NodeID
}

// NewCursor returns a cursor positioned on the root.
func (t *Tree) NewCursor() *Cursor {
	return &Cursor{t: t, cur: t.root}
}

// Current returns the node under the cursor, or None once a search failed.
func (c *Cursor) Current() NodeID {
	return c.cur
}

// GotoAnnotated moves to the first node, in pre-order from the root, carrying
// annotation. It returns None if there is no such node.
func (c *Cursor) GotoAnnotated(annotation string) NodeID {
	c.cur = c.t.root
	if c.t.Item(c.cur).Annotation == annotation {
		return c.cur
	}
	return c.GotoNextAnnotated(annotation)
}

// GotoNextAnnotated moves to the next node after the current one carrying
// annotation. If the current node was detached after the cursor reached it,
// the search continues with whatever followed its subtree.
func (c *Cursor) GotoNextAnnotated(annotation string) NodeID {
	if c.cur == None {
		return None
	}
	var id NodeID
	if c.t.Attached(c.cur) {
		id = c.t.Next(c.cur)
	} else {
		id = c.t.nextAfter(c.cur)
	}
	for ; id != None; id = c.t.Next(id) {
		if c.t.nodes[id].item.Annotation == annotation {
			c.cur = id
			return id
		}
	}
	c.cur = None
	return None
}

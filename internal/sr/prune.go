package sr

import (
	"fmt"

	"github.com/mrsinham/srforge/internal/sr/code"
	"github.com/mrsinham/srforge/internal/sr/tree"
)

// PruneDuplicateModality removes the Modality row under every image library
// entry, since the library group already states the modality. It returns the
// number of content items removed; a second run removes nothing.
//
// The cursor stays on the entry whose child was removed and the search for the
// next entry continues from there.
func PruneDuplicateModality(t *tree.Tree) (int, error) {
	c := t.NewCursor()
	removed := 0
	for id := c.GotoAnnotated(ImageEntryAnnotation); id != tree.None; id = c.GotoNextAnnotated(ImageEntryAnnotation) {
		m := t.FindChild(id, code.Modality)
		if m == tree.None {
			continue
		}
		n, err := t.RemoveSubtree(m)
		if err != nil {
			return removed, fmt.Errorf("remove modality of node %d: %w", id, err)
		}
		removed += n
	}
	return removed, nil
}

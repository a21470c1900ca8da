// Package aggregate groups observations from all documents of a run into a
// typed tree whose levels follow a layout.
package aggregate

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tsawler/debrief/model"
	"github.com/tsawler/debrief/normalize"
	"github.com/tsawler/debrief/variant"
)

// Node is one group of the tree. Leaf nodes hold observations; inner nodes
// hold children.
type Node struct {
	Level variant.Level
	// Key is the category label, area or date string of the group.
	Key string
	// Ungrouped marks the bucket of observations without an area.
	Ungrouped bool
	// Shift is the shift of the first observation added to the group.
	Shift string

	Children     []*Node
	Observations []model.Observation

	index    map[string]*Node
	shiftSet bool
}

// IsLeaf reports whether n is on the innermost level.
func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// Count returns the number of observations in the subtree.
func (n *Node) Count() int {
	if n.IsLeaf() {
		return len(n.Observations)
	}
	total := 0
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Tree is the grouped form of a run's observations.
type Tree struct {
	Levels   []variant.Level
	Children []*Node
	// Excluded holds observations left out of a date level because their
	// date is empty or does not parse. They are in input order.
	Excluded []model.Observation
}

// Count returns the number of observations in the tree.
func (t *Tree) Count() int {
	total := 0
	for _, c := range t.Children {
		total += c.Count()
	}
	return total
}

// Build groups obs by levels, outer to inner.
//
// Every category level lists all categories in configured order, empty ones
// included. Area levels are ordered by Dutch collation with the ungrouped
// bucket last. Date levels list parseable dates in ascending order; other
// observations go to Tree.Excluded. Leaves are sorted stably by date and
// shift, with unparseable dates first.
func Build(obs []model.Observation, categories []string, levels []variant.Level, f normalize.Format) *Tree {
	b := &builder{
		categories: categories,
		levels:     levels,
		format:     f,
		collator:   collate.New(language.Dutch),
	}
	root := b.newNode(-1, "", 0)
	tree := &Tree{Levels: append([]variant.Level(nil), levels...)}

	// Observations without a usable date cannot be placed on a date level.
	skip := make([]bool, len(obs))
	if hasLevel(levels, variant.LevelDate) {
		for i, o := range obs {
			if _, ok := normalize.Parse(o.Date, f); !ok {
				skip[i] = true
				tree.Excluded = append(tree.Excluded, o)
			}
		}
	}

	// Category order first, input order second. This fixes which
	// observation a group sees first.
	for _, cat := range categories {
		for i, o := range obs {
			if o.Category == cat && !skip[i] {
				b.insert(root, o, 0)
			}
		}
	}

	b.finish(root, 0)
	tree.Children = root.Children
	return tree
}

type builder struct {
	categories []string
	levels     []variant.Level
	format     normalize.Format
	collator   *collate.Collator
}

// newNode creates a node at the given level. depth is the index of the
// level its children belong to.
func (b *builder) newNode(level variant.Level, key string, depth int) *Node {
	n := &Node{Level: level, Key: key}
	if depth >= len(b.levels) {
		return n
	}
	n.Children = []*Node{}
	n.index = make(map[string]*Node)
	if b.levels[depth] == variant.LevelCategory {
		for _, cat := range b.categories {
			b.child(n, variant.LevelCategory, cat, depth)
		}
	}
	return n
}

func (b *builder) child(parent *Node, level variant.Level, key string, depth int) *Node {
	if c, ok := parent.index[key]; ok {
		return c
	}
	c := b.newNode(level, key, depth+1)
	c.Ungrouped = level == variant.LevelArea && key == ""
	parent.index[key] = c
	parent.Children = append(parent.Children, c)
	return c
}

func (b *builder) insert(n *Node, o model.Observation, depth int) {
	if !n.shiftSet {
		n.Shift = o.Shift
		n.shiftSet = true
	}
	if depth >= len(b.levels) {
		n.Observations = append(n.Observations, o)
		return
	}

	level := b.levels[depth]
	var key string
	switch level {
	case variant.LevelCategory:
		key = o.Category
	case variant.LevelArea:
		key = o.Area
	case variant.LevelDate:
		key = o.Date
	}
	b.insert(b.child(n, level, key, depth), o, depth+1)
}

// finish orders children and leaves and drops the lookup indexes.
func (b *builder) finish(n *Node, depth int) {
	n.index = nil
	if depth >= len(b.levels) {
		sortObservations(n.Observations, b.format)
		return
	}

	switch b.levels[depth] {
	case variant.LevelArea:
		sort.SliceStable(n.Children, func(i, j int) bool {
			a, c := n.Children[i], n.Children[j]
			if a.Ungrouped != c.Ungrouped {
				return c.Ungrouped
			}
			if r := b.collator.CompareString(a.Key, c.Key); r != 0 {
				return r < 0
			}
			return a.Key < c.Key
		})
	case variant.LevelDate:
		sort.SliceStable(n.Children, func(i, j int) bool {
			a := normalize.SortKey(n.Children[i].Key, b.format)
			c := normalize.SortKey(n.Children[j].Key, b.format)
			return a.Before(c)
		})
	}

	for _, c := range n.Children {
		b.finish(c, depth+1)
	}
}

// sortObservations sorts by (date, shift) keeping input order for ties.
func sortObservations(obs []model.Observation, f normalize.Format) {
	type keyed struct {
		key normalize.Key
		obs model.Observation
	}
	ks := make([]keyed, len(obs))
	for i, o := range obs {
		ks[i] = keyed{key: normalize.NewKey(o.Date, o.Shift, f), obs: o}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].key.Less(ks[j].key)
	})
	for i := range ks {
		obs[i] = ks[i].obs
	}
}

func hasLevel(levels []variant.Level, l variant.Level) bool {
	for _, lv := range levels {
		if lv == l {
			return true
		}
	}
	return false
}

// Package asset models a minimal asset hierarchy: elements nested under
// elements, each carrying attributes that may be bound to historian tags.
// Traversal flattens the tree so batch queries can collect every bound tag
// in one pass.
package asset

import "iter"

// Attribute is a named property of an element. Tag, when non-empty, names
// the historian tag backing the attribute's data. Attributes may nest.
type Attribute struct {
	Name     string       `json:"name"`
	Tag      string       `json:"tag,omitempty"`
	Children []*Attribute `json:"children,omitempty"`
}

// Element is a node in the asset tree.
type Element struct {
	Name       string       `json:"name"`
	Attributes []*Attribute `json:"attributes,omitempty"`
	Children   []*Element   `json:"children,omitempty"`
}

// Traverse yields every attribute in the element's subtree depth-first:
// the element's own attributes (each followed by its child attributes),
// then each child element's attributes in declaration order.
func (e *Element) Traverse() iter.Seq[*Attribute] {
	return func(yield func(*Attribute) bool) {
		e.walk(yield)
	}
}

func (e *Element) walk(yield func(*Attribute) bool) bool {
	for _, a := range e.Attributes {
		if !a.walk(yield) {
			return false
		}
	}
	for _, child := range e.Children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

func (a *Attribute) walk(yield func(*Attribute) bool) bool {
	if !yield(a) {
		return false
	}
	for _, child := range a.Children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// TagNames collects the distinct historian tags bound to attributes in the
// element's subtree, in traversal order.
func (e *Element) TagNames() []string {
	var tags []string
	seen := make(map[string]bool)
	for a := range e.Traverse() {
		if a.Tag == "" || seen[a.Tag] {
			continue
		}
		seen[a.Tag] = true
		tags = append(tags, a.Tag)
	}
	return tags
}

package tsql

// TraversalKind tells a generic walker how to treat a field value.
type TraversalKind uint8

const (
	// TraverseClauseElement marks a field holding a single child node.
	TraverseClauseElement = TraversalKind(iota + 1)
	// TraverseClauseList marks a field holding an ordered list of child nodes.
	TraverseClauseList
	// TraverseBoolean marks a boolean flag.
	TraverseBoolean
	// TraverseString marks a string token.
	TraverseString
	// TraverseInt marks an integer token.
	TraverseInt
	// TraverseAnon marks an opaque value carried for diagnostics only.
	// Walkers must not recurse into it.
	TraverseAnon
)

// TraversalField is a structural field of a clause node.
//
// For TraverseClauseElement the value is a ClauseElement, for
// TraverseClauseList a []ClauseElement.
type TraversalField struct {
	Name  string
	Kind  TraversalKind
	Value any
}

// Walk traverses the tree rooted at e in depth-first pre-order.
//
// fn is called for every node; returning false prunes the subtree.
func Walk(e ClauseElement, fn func(ClauseElement) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, f := range e.TraverseInternals() {
		switch f.Kind {
		case TraverseClauseElement:
			if child, ok := f.Value.(ClauseElement); ok && child != nil {
				Walk(child, fn)
			}
		case TraverseClauseList:
			children, _ := f.Value.([]ClauseElement)
			for _, child := range children {
				Walk(child, fn)
			}
		}
	}
}

// clauseList widens a slice of nodes to []ClauseElement.
func clauseList[T ClauseElement](items []T) []ClauseElement {
	out := make([]ClauseElement, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

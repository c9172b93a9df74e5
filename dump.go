package tsql

import (
	"fmt"

	"github.com/go-faster/jx"
)

// DumpTree returns a JSON rendering of the clause tree for debugging.
//
// Only [ClauseElement.VisitName] and [ClauseElement.TraverseInternals]
// are consulted, so the dump works for any node.
func DumpTree(e ClauseElement) string {
	enc := jx.GetEncoder()
	defer jx.PutEncoder(enc)
	encodeNode(enc, e)
	return enc.String()
}

func encodeNode(e *jx.Encoder, node ClauseElement) {
	if node == nil {
		e.Null()
		return
	}
	e.Obj(func(e *jx.Encoder) {
		e.Field("node", func(e *jx.Encoder) {
			e.Str(node.VisitName())
		})
		for _, f := range node.TraverseInternals() {
			e.Field(f.Name, func(e *jx.Encoder) {
				encodeField(e, f)
			})
		}
	})
}

func encodeField(e *jx.Encoder, f TraversalField) {
	switch f.Kind {
	case TraverseClauseElement:
		child, _ := f.Value.(ClauseElement)
		encodeNode(e, child)
	case TraverseClauseList:
		children, _ := f.Value.([]ClauseElement)
		e.Arr(func(e *jx.Encoder) {
			for _, child := range children {
				encodeNode(e, child)
			}
		})
	case TraverseBoolean:
		v, _ := f.Value.(bool)
		e.Bool(v)
	case TraverseString:
		v, _ := f.Value.(string)
		e.Str(v)
	case TraverseInt:
		v, _ := f.Value.(int)
		e.Int(v)
	default:
		e.Str(fmt.Sprintf("%v", f.Value))
	}
}

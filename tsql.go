// Package tsql implements a composable Transact-SQL expression and
// statement builder.
//
// Clause trees are assembled from typed nodes and rendered to SQL text by
// [Printer]: nodes own structure, the printer owns syntax. The centerpiece
// is [Apply], the correlated table-valued join (CROSS APPLY / OUTER APPLY).
package tsql

// ClauseElement is a node of a clause tree.
type ClauseElement interface {
	// VisitName returns the name of the syntactic construct, e.g. "apply"
	// or "select".
	VisitName() string
	// TraverseInternals returns the structural fields of the node so
	// generic walkers can recurse without per-type knowledge.
	TraverseInternals() []TraversalField
}

// Bind is an opaque execution context associated with a relation.
//
// The builder only propagates it between relations and never calls into it.
type Bind = any

// Operator is a SQL operator token, also used as the grouping hint of
// [FromClause.SelfGroup].
type Operator string

// Operators known to the builder.
const (
	OpNone Operator = ""
	OpAnd  Operator = "AND"
	OpOr   Operator = "OR"
	OpNot  Operator = "NOT"
	OpEq   Operator = "="
	OpNe   Operator = "<>"
	OpGt   Operator = ">"
	OpGte  Operator = ">="
	OpLt   Operator = "<"
	OpLte  Operator = "<="
	OpLike Operator = "LIKE"
)

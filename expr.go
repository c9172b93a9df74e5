package tsql

import "strconv"

// Expr is a scalar expression node.
type Expr interface {
	ClauseElement
	exprNode()
}

type binaryExpr struct {
	left  Expr
	op    Operator
	right Expr
}

func (e *binaryExpr) VisitName() string { return "binary" }

func (e *binaryExpr) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "left", Kind: TraverseClauseElement, Value: e.left},
		{Name: "op", Kind: TraverseString, Value: string(e.op)},
		{Name: "right", Kind: TraverseClauseElement, Value: e.right},
	}
}

func (e *binaryExpr) exprNode() {}

// naryExpr joins operands with a single operator without nesting, so
// AND chains render flat.
type naryExpr struct {
	op   Operator
	args []Expr
}

func (e *naryExpr) VisitName() string { return "clause_list" }

func (e *naryExpr) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "op", Kind: TraverseString, Value: string(e.op)},
		{Name: "args", Kind: TraverseClauseList, Value: clauseList(e.args)},
	}
}

func (e *naryExpr) exprNode() {}

type unaryExpr struct {
	op   Operator
	expr Expr
}

func (e *unaryExpr) VisitName() string { return "unary" }

func (e *unaryExpr) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "op", Kind: TraverseString, Value: string(e.op)},
		{Name: "expr", Kind: TraverseClauseElement, Value: e.expr},
	}
}

func (e *unaryExpr) exprNode() {}

type isNullExpr struct {
	expr Expr
	not  bool
}

func (e *isNullExpr) VisitName() string { return "is_null" }

func (e *isNullExpr) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "expr", Kind: TraverseClauseElement, Value: e.expr},
		{Name: "not", Kind: TraverseBoolean, Value: e.not},
	}
}

func (e *isNullExpr) exprNode() {}

type funcExpr struct {
	name string
	args []Expr
}

func (e *funcExpr) VisitName() string { return "function" }

func (e *funcExpr) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "name", Kind: TraverseString, Value: e.name},
		{Name: "args", Kind: TraverseClauseList, Value: clauseList(e.args)},
	}
}

func (e *funcExpr) exprNode() {}

type litKind uint8

const (
	litString = litKind(iota + 1)
	litInt
	litFloat
	litBool
	litNull
)

type literalExpr struct {
	kind litKind
	str  string
	num  int64
	fp   float64
	b    bool
}

func (e *literalExpr) VisitName() string { return "literal" }

func (e *literalExpr) TraverseInternals() []TraversalField {
	var v any
	switch e.kind {
	case litString:
		v = e.str
	case litInt:
		v = strconv.FormatInt(e.num, 10)
	case litFloat:
		v = strconv.FormatFloat(e.fp, 'g', -1, 64)
	case litBool:
		v = e.b
	case litNull:
		v = "NULL"
	}
	return []TraversalField{
		{Name: "value", Kind: TraverseAnon, Value: v},
	}
}

func (e *literalExpr) exprNode() {}

type paramExpr struct {
	name string
}

func (e *paramExpr) VisitName() string { return "param" }

func (e *paramExpr) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "name", Kind: TraverseString, Value: e.name},
	}
}

func (e *paramExpr) exprNode() {}

type orderExpr struct {
	expr Expr
	desc bool
}

func (e *orderExpr) VisitName() string { return "order" }

func (e *orderExpr) TraverseInternals() []TraversalField {
	return []TraversalField{
		{Name: "expr", Kind: TraverseClauseElement, Value: e.expr},
		{Name: "desc", Kind: TraverseBoolean, Value: e.desc},
	}
}

func (e *orderExpr) exprNode() {}

package tsql

// litValue is a Go value directly expressible as a SQL literal.
type litValue interface {
	string | bool | int | int32 | int64 | float64
}

// String returns a string literal.
func String(v string) Expr {
	return &literalExpr{kind: litString, str: v}
}

// Integer returns an integer literal.
func Integer[N ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32](v N) Expr {
	return &literalExpr{kind: litInt, num: int64(v)}
}

// Float returns a float literal.
func Float(v float64) Expr {
	return &literalExpr{kind: litFloat, fp: v}
}

// Bool returns a bit literal, 1 for true and 0 for false.
func Bool(v bool) Expr {
	return &literalExpr{kind: litBool, b: v}
}

// Null returns the NULL literal.
func Null() Expr {
	return &literalExpr{kind: litNull}
}

// Value returns a literal expression for a Go value.
func Value[V litValue](v V) Expr {
	switch v := any(v).(type) {
	case string:
		return String(v)
	case bool:
		return Bool(v)
	case int:
		return Integer(v)
	case int32:
		return Integer(v)
	case int64:
		return Integer(v)
	default:
		return Float(v.(float64))
	}
}

// Param returns a named statement parameter, rendered as @name.
func Param(name string) Expr {
	return &paramExpr{name: name}
}

// Function returns a function call expression.
func Function(name string, args ...Expr) Expr {
	return &funcExpr{name: name, args: args}
}

func binaryOp(left Expr, op Operator, right Expr) Expr {
	return &binaryExpr{left: left, op: op, right: right}
}

func joinBinaryOp(op Operator, args []Expr) Expr {
	return &naryExpr{op: op, args: args}
}

// Eq returns new `=` operation.
func Eq(left, right Expr) Expr {
	return binaryOp(left, OpEq, right)
}

// Ne returns new `<>` operation.
func Ne(left, right Expr) Expr {
	return binaryOp(left, OpNe, right)
}

// Gt returns new `>` operation.
func Gt(left, right Expr) Expr {
	return binaryOp(left, OpGt, right)
}

// Gte returns new `>=` operation.
func Gte(left, right Expr) Expr {
	return binaryOp(left, OpGte, right)
}

// Lt returns new `<` operation.
func Lt(left, right Expr) Expr {
	return binaryOp(left, OpLt, right)
}

// Lte returns new `<=` operation.
func Lte(left, right Expr) Expr {
	return binaryOp(left, OpLte, right)
}

// Like returns new `LIKE` operation.
func Like(left, right Expr) Expr {
	return binaryOp(left, OpLike, right)
}

// And returns new `AND` operation.
func And(left, right Expr) Expr {
	return binaryOp(left, OpAnd, right)
}

// Or returns new `OR` operation.
func Or(left, right Expr) Expr {
	return binaryOp(left, OpOr, right)
}

// Not returns new `NOT` operation.
func Not(e Expr) Expr {
	return &unaryExpr{op: OpNot, expr: e}
}

// IsNull returns new `IS NULL` operation.
func IsNull(e Expr) Expr {
	return &isNullExpr{expr: e}
}

// IsNotNull returns new `IS NOT NULL` operation.
func IsNotNull(e Expr) Expr {
	return &isNullExpr{expr: e, not: true}
}

// ColumnEq returns new `=` operation on column and literal.
func ColumnEq[V litValue](column *Column, right V) Expr {
	return binaryOp(column, OpEq, Value(right))
}

// Asc returns an ascending ordering of e.
func Asc(e Expr) Expr {
	return &orderExpr{expr: e}
}

// Desc returns a descending ordering of e.
func Desc(e Expr) Expr {
	return &orderExpr{expr: e, desc: true}
}

// tautology is the T-SQL substitute for a bare boolean literal.
func tautology() Expr {
	return Eq(Integer(1), Integer(1))
}

// JoinAnd joins given expressions using AND op.
//
//   - If len(args) == 0, returns a tautology.
//   - If len(args) == 1, returns first argument.
//   - Otherwise, joins arguments with AND.
func JoinAnd(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return tautology()
	case 1:
		return args[0]
	default:
		return joinBinaryOp(OpAnd, args)
	}
}

// JoinOr joins given expressions using OR op.
//
//   - If len(args) == 0, returns a tautology.
//   - If len(args) == 1, returns first argument.
//   - Otherwise, joins arguments with OR.
func JoinOr(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return tautology()
	case 1:
		return args[0]
	default:
		return joinBinaryOp(OpOr, args)
	}
}

package tsql

// AsFrom is implemented by values that can offer themselves as a relation.
type AsFrom interface {
	AsFrom() FromClause
}

// AsFromClause coerces v to a relation.
//
// Relations pass through unchanged, [AsFrom] implementers contribute their
// relation. A bare [SelectStatement] is rejected with guidance: turn it
// into a relation explicitly with [SelectStatement.Subquery]. Anything
// else fails with a [CoerceError].
func AsFromClause(v any) (FromClause, error) {
	switch v := v.(type) {
	case FromClause:
		return v, nil
	case AsFrom:
		return v.AsFrom(), nil
	case *SelectStatement:
		return nil, &CoerceError{
			Role:  "FROM clause (call Subquery to use a SELECT as one)",
			Value: v,
		}
	default:
		return nil, &CoerceError{Role: "FROM clause", Value: v}
	}
}

package tsql

import (
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Compiler renders clause trees to T-SQL text.
//
// The zero value is ready to use.
type Compiler struct {
	// Logger, if set, receives every compiled statement at debug level.
	Logger *zap.Logger
}

// Compile renders a statement.
func (c Compiler) Compile(q *SelectStatement) (string, error) {
	p := GetPrinter()
	defer PutPrinter(p)
	if err := p.WriteSelect(q); err != nil {
		return "", errors.Wrap(err, "write select")
	}
	out := p.String()
	if c.Logger != nil {
		c.Logger.Debug("Compiled statement", zap.String("sql", out))
	}
	return out, nil
}

// CompileFrom renders a relation.
func (c Compiler) CompileFrom(f FromClause) (string, error) {
	p := GetPrinter()
	defer PutPrinter(p)
	if err := p.WriteFrom(f); err != nil {
		return "", errors.Wrap(err, "write from")
	}
	out := p.String()
	if c.Logger != nil {
		c.Logger.Debug("Compiled relation", zap.String("sql", out))
	}
	return out, nil
}

// CompileExpr renders a scalar expression.
func (c Compiler) CompileExpr(e Expr) (string, error) {
	p := GetPrinter()
	defer PutPrinter(p)
	if err := p.WriteExpr(e); err != nil {
		return "", errors.Wrap(err, "write expr")
	}
	out := p.String()
	if c.Logger != nil {
		c.Logger.Debug("Compiled expression", zap.String("sql", out))
	}
	return out, nil
}

// Compile renders a statement with the zero compiler.
func Compile(q *SelectStatement) (string, error) {
	return Compiler{}.Compile(q)
}

// CompileFrom renders a relation with the zero compiler.
func CompileFrom(f FromClause) (string, error) {
	return Compiler{}.CompileFrom(f)
}

// CompileExpr renders a scalar expression with the zero compiler.
func CompileExpr(e Expr) (string, error) {
	return Compiler{}.CompileExpr(e)
}

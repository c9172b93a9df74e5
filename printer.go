package tsql

import (
	"strconv"
	"strings"
	"sync"

	"github.com/go-faster/errors"
)

var printerPool = sync.Pool{
	New: func() any {
		return &Printer{}
	},
}

// GetPrinter returns a printer from the pool.
func GetPrinter() *Printer {
	return printerPool.Get().(*Printer)
}

// PutPrinter resets the printer and returns it to the pool.
func PutPrinter(p *Printer) {
	p.Reset()
	printerPool.Put(p)
}

// Printer renders clause trees to T-SQL text.
type Printer struct {
	buf  []byte
	anon int
}

// Reset truncates the buffer and restarts anonymous naming.
func (p *Printer) Reset() {
	p.buf = p.buf[:0]
	p.anon = 0
}

// String returns the rendered text.
func (p *Printer) String() string {
	return string(p.buf)
}

func (p *Printer) write(s string) {
	p.buf = append(p.buf, s...)
}

func (p *Printer) writeByte(c byte) {
	p.buf = append(p.buf, c)
}

// nextAnon returns the next name for an unnamed alias or subquery.
// Numbering restarts on Reset, so repeated renders are identical.
func (p *Printer) nextAnon() string {
	p.anon++
	return "q" + strconv.Itoa(p.anon)
}

// writeName renders a possibly schema-qualified name, quoting each part.
func (p *Printer) writeName(name string) {
	for i, part := range strings.Split(name, ".") {
		if i > 0 {
			p.writeByte('.')
		}
		p.write(QuoteIdent(part))
	}
}

// WriteExpr renders a scalar expression.
func (p *Printer) WriteExpr(e Expr) error {
	switch e := e.(type) {
	case nil:
		return errors.New("empty expression")
	case *Column:
		if e.table != nil {
			if name := relationName(e.table); name != "" {
				p.writeName(name)
				p.writeByte('.')
			}
		}
		p.write(QuoteIdent(e.name))
		return nil
	case *binaryExpr:
		p.writeByte('(')
		if err := p.WriteExpr(e.left); err != nil {
			return errors.Wrap(err, "left")
		}
		p.writeByte(' ')
		p.write(string(e.op))
		p.writeByte(' ')
		if err := p.WriteExpr(e.right); err != nil {
			return errors.Wrap(err, "right")
		}
		p.writeByte(')')
		return nil
	case *naryExpr:
		p.writeByte('(')
		for i, arg := range e.args {
			if i > 0 {
				p.writeByte(' ')
				p.write(string(e.op))
				p.writeByte(' ')
			}
			if err := p.WriteExpr(arg); err != nil {
				return errors.Wrapf(err, "operand %d", i)
			}
		}
		p.writeByte(')')
		return nil
	case *unaryExpr:
		p.writeByte('(')
		p.write(string(e.op))
		p.writeByte(' ')
		if err := p.WriteExpr(e.expr); err != nil {
			return errors.Wrap(err, "operand")
		}
		p.writeByte(')')
		return nil
	case *isNullExpr:
		p.writeByte('(')
		if err := p.WriteExpr(e.expr); err != nil {
			return errors.Wrap(err, "operand")
		}
		if e.not {
			p.write(" IS NOT NULL")
		} else {
			p.write(" IS NULL")
		}
		p.writeByte(')')
		return nil
	case *funcExpr:
		if e.name == "" {
			return errors.New("empty function name")
		}
		p.write(e.name)
		p.writeByte('(')
		for i, arg := range e.args {
			if i > 0 {
				p.write(", ")
			}
			if err := p.WriteExpr(arg); err != nil {
				return errors.Wrapf(err, "argument %d", i)
			}
		}
		p.writeByte(')')
		return nil
	case *literalExpr:
		p.writeLiteral(e)
		return nil
	case *paramExpr:
		if e.name == "" {
			return errors.New("empty parameter name")
		}
		p.writeByte('@')
		p.write(e.name)
		return nil
	case *orderExpr:
		if err := p.WriteExpr(e.expr); err != nil {
			return errors.Wrap(err, "operand")
		}
		if e.desc {
			p.write(" DESC")
		} else {
			p.write(" ASC")
		}
		return nil
	default:
		return errors.Errorf("unexpected expression %T", e)
	}
}

func (p *Printer) writeLiteral(e *literalExpr) {
	switch e.kind {
	case litString:
		p.writeByte('\'')
		p.write(strings.ReplaceAll(e.str, "'", "''"))
		p.writeByte('\'')
	case litInt:
		p.buf = strconv.AppendInt(p.buf, e.num, 10)
	case litFloat:
		p.buf = strconv.AppendFloat(p.buf, e.fp, 'g', -1, 64)
	case litBool:
		if e.b {
			p.writeByte('1')
		} else {
			p.writeByte('0')
		}
	case litNull:
		p.write("NULL")
	}
}

// WriteFrom renders a relation.
func (p *Printer) WriteFrom(f FromClause) error {
	switch f := f.(type) {
	case nil:
		return errors.New("empty relation")
	case *Table:
		if f.name == "" {
			return errors.New("empty table name")
		}
		p.writeName(f.name)
		return nil
	case *TableFunc:
		if f.name == "" {
			return errors.New("empty function name")
		}
		p.write(f.name)
		p.writeByte('(')
		for i, arg := range f.args {
			if i > 0 {
				p.write(", ")
			}
			if err := p.WriteExpr(arg); err != nil {
				return errors.Wrapf(err, "argument %d", i)
			}
		}
		p.writeByte(')')
		return nil
	case *Alias:
		if err := p.WriteFrom(f.element); err != nil {
			return errors.Wrap(err, "element")
		}
		p.write(" AS ")
		name := f.name
		if name == "" {
			name = p.nextAnon()
		}
		p.write(QuoteIdent(name))
		return nil
	case *FromGrouping:
		p.writeByte('(')
		if err := p.WriteFrom(f.element); err != nil {
			return err
		}
		p.writeByte(')')
		return nil
	case *Join:
		if err := p.WriteFrom(f.left); err != nil {
			return errors.Wrap(err, "left")
		}
		if f.isouter {
			p.write(" LEFT OUTER JOIN ")
		} else {
			p.write(" JOIN ")
		}
		if err := p.WriteFrom(f.right); err != nil {
			return errors.Wrap(err, "right")
		}
		if f.onclause != nil {
			p.write(" ON ")
			if err := p.WriteExpr(f.onclause); err != nil {
				return errors.Wrap(err, "on")
			}
		}
		return nil
	case *Apply:
		if err := p.WriteFrom(f.left); err != nil {
			return errors.Wrap(err, "left")
		}
		if f.isouter {
			p.write(" OUTER APPLY ")
		} else {
			p.write(" CROSS APPLY ")
		}
		if err := p.WriteFrom(f.right); err != nil {
			return errors.Wrap(err, "right")
		}
		return nil
	case *Subquery:
		p.writeByte('(')
		if err := p.WriteSelect(f.stmt); err != nil {
			return errors.Wrap(err, "statement")
		}
		p.writeByte(')')
		p.write(" AS ")
		name := f.name
		if name == "" {
			name = p.nextAnon()
		}
		p.write(QuoteIdent(name))
		return nil
	default:
		return errors.Errorf("unexpected relation %T", f)
	}
}

// WriteSelect renders a statement.
func (p *Printer) WriteSelect(q *SelectStatement) error {
	p.write("SELECT ")
	if q.distinct {
		p.write("DISTINCT ")
	}
	if q.top > 0 {
		p.write("TOP ")
		p.buf = strconv.AppendInt(p.buf, int64(q.top), 10)
		p.writeByte(' ')
	}
	var written int
	for i, item := range q.items {
		switch item := item.(type) {
		case FromClause:
			for _, col := range item.Columns().Slice() {
				if written > 0 {
					p.write(", ")
				}
				written++
				if err := p.WriteExpr(col); err != nil {
					return errors.Wrapf(err, "item %d", i)
				}
			}
		case Expr:
			if written > 0 {
				p.write(", ")
			}
			written++
			if err := p.WriteExpr(item); err != nil {
				return errors.Wrapf(err, "item %d", i)
			}
		default:
			return errors.Errorf("unexpected select item %T", item)
		}
	}
	if written == 0 {
		p.writeByte('*')
	}
	if froms := q.DisplayFroms(); len(froms) > 0 {
		p.write(" FROM ")
		for i, f := range froms {
			if i > 0 {
				p.write(", ")
			}
			if err := p.WriteFrom(f); err != nil {
				return errors.Wrapf(err, "from %d", i)
			}
		}
	}
	if q.where != nil {
		p.write(" WHERE ")
		if err := p.WriteExpr(q.where); err != nil {
			return errors.Wrap(err, "where")
		}
	}
	if len(q.groupBy) > 0 {
		p.write(" GROUP BY ")
		for i, e := range q.groupBy {
			if i > 0 {
				p.write(", ")
			}
			if err := p.WriteExpr(e); err != nil {
				return errors.Wrapf(err, "group by %d", i)
			}
		}
	}
	if len(q.orderBy) > 0 {
		p.write(" ORDER BY ")
		for i, e := range q.orderBy {
			if i > 0 {
				p.write(", ")
			}
			if err := p.WriteExpr(e); err != nil {
				return errors.Wrapf(err, "order by %d", i)
			}
		}
	}
	return nil
}

// QuoteIdent returns the identifier quoted for T-SQL, bracketing it when
// it is not a plain identifier or collides with a reserved word.
func QuoteIdent(s string) string {
	if plainIdent(s) && !reservedWords[strings.ToUpper(s)] {
		return s
	}
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}

func plainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// reservedWords is the subset of T-SQL reserved words likely to collide
// with identifiers.
var reservedWords = map[string]bool{
	"CASE": true, "CHECK": true, "CROSS": true, "FILE": true,
	"FROM": true, "GROUP": true, "JOIN": true, "KEY": true,
	"LEFT": true, "OPTION": true, "ORDER": true, "PLAN": true,
	"PUBLIC": true, "RIGHT": true, "RULE": true, "SELECT": true,
	"TABLE": true, "TOP": true, "USER": true, "WHERE": true,
}

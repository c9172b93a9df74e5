// Package ddl generates T-SQL DDL statements from table descriptions.
package ddl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// Column of [Table].
//
// A column with an empty name and a non-empty comment renders as a
// comment row between column definitions.
type Column struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Collate    string `yaml:"collate,omitempty"`
	Default    string `yaml:"default,omitempty"`
	NotNull    bool   `yaml:"notnull,omitempty"`
	Identity   bool   `yaml:"identity,omitempty"`
	References string `yaml:"references,omitempty"`
	Comment    string `yaml:"comment,omitempty"`
}

func (c Column) hasModifiers() bool {
	return c.Collate != "" || c.Identity || c.NotNull ||
		c.Default != "" || c.References != "" || c.Comment != ""
}

// Table description.
type Table struct {
	Schema     string   `yaml:"schema,omitempty"`
	Name       string   `yaml:"name"`
	Columns    []Column `yaml:"columns"`
	PrimaryKey []string `yaml:"primary_key,omitempty"`
}

// QualifiedName returns the unquoted, schema-qualified table name.
func (t Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// FullName returns the bracketed, schema-qualified table name.
func (t Table) FullName() string {
	if t.Schema == "" {
		return Bracket(t.Name)
	}
	return Bracket(t.Schema) + "." + Bracket(t.Name)
}

// Validate checks the description for emptiness and duplicates.
func (t Table) Validate() error {
	if t.Name == "" {
		return errors.New("table name must be set")
	}
	if len(t.Columns) == 0 {
		return errors.Errorf("table %q: no columns", t.Name)
	}
	seen := map[string]struct{}{}
	for _, c := range t.Columns {
		if c.Name == "" {
			if c.Comment == "" {
				return errors.Errorf("table %q: column name must be set", t.Name)
			}
			// Comment row.
			continue
		}
		if _, ok := seen[c.Name]; ok {
			return errors.Errorf("table %q: duplicate column %q", t.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.Type == "" {
			return errors.Errorf("table %q: column %q: type must be set", t.Name, c.Name)
		}
		if c.References != "" {
			if _, _, err := ParseReference(c.References); err != nil {
				return errors.Wrapf(err, "table %q: column %q", t.Name, c.Name)
			}
		}
	}
	for _, name := range t.PrimaryKey {
		if _, ok := seen[name]; !ok {
			return errors.Errorf("table %q: primary key column %q does not exist", t.Name, name)
		}
	}
	return nil
}

// Bracket quotes the identifier with square brackets.
func Bracket(s string) string {
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}

// bracketName quotes a possibly schema-qualified name part by part.
func bracketName(s string) string {
	parts := strings.Split(s, ".")
	for i, part := range parts {
		parts[i] = Bracket(part)
	}
	return strings.Join(parts, ".")
}

// ParseReference parses a "table(column)" foreign key reference.
func ParseReference(s string) (table, column string, err error) {
	t, rest, ok := strings.Cut(s, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return "", "", errors.Errorf("invalid reference %q", s)
	}
	table = strings.TrimSpace(t)
	column = strings.TrimSpace(strings.TrimSuffix(rest, ")"))
	if table == "" || column == "" {
		return "", "", errors.Errorf("invalid reference %q", s)
	}
	return table, column, nil
}

// Create generates DDL query for table creation.
func Create(t Table) (string, error) {
	return create(t, false)
}

// CreateIfNotExists generates DDL query for table creation, guarded so it
// only runs when the table does not exist yet.
func CreateIfNotExists(t Table) (string, error) {
	return create(t, true)
}

func create(t Table, ifNotExists bool) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	if ifNotExists {
		fmt.Fprintf(&b, "IF OBJECT_ID(N'%s', N'U') IS NULL\n", t.FullName())
	}
	b.WriteString("CREATE TABLE ")
	b.WriteString(t.FullName())
	b.WriteString("\n(")
	var (
		maxColumnLen     int
		maxColumnTypeLen int
	)
	for _, c := range t.Columns {
		if len(c.Name) > maxColumnLen {
			maxColumnLen = len(c.Name)
		}
		if len(c.Type) > maxColumnTypeLen {
			maxColumnTypeLen = len(c.Type)
		}
	}
	hasPK := len(t.PrimaryKey) > 0
	for i, c := range t.Columns {
		b.WriteString("\n")
		var col strings.Builder
		col.WriteString("\t")
		if c.Name == "" {
			// Comment row.
			col.WriteString("-- ")
			col.WriteString(c.Comment)
			b.WriteString(col.String())
			continue
		}
		nameFormat := "%-" + strconv.Itoa(maxColumnLen+2) + "s"
		fmt.Fprintf(&col, nameFormat, Bracket(c.Name))
		col.WriteString(" ")
		typeFormat := "%-" + strconv.Itoa(maxColumnTypeLen) + "s"
		if !c.hasModifiers() {
			typeFormat = "%s"
		}
		fmt.Fprintf(&col, typeFormat, c.Type)
		if c.Collate != "" {
			col.WriteString(" COLLATE ")
			col.WriteString(c.Collate)
		}
		if c.Identity {
			col.WriteString(" IDENTITY(1,1)")
		}
		if c.NotNull {
			col.WriteString(" NOT NULL")
		}
		if c.Default != "" {
			col.WriteString(" DEFAULT ")
			col.WriteString(c.Default)
		}
		if c.References != "" {
			refTable, refColumn, err := ParseReference(c.References)
			if err != nil {
				return "", errors.Wrapf(err, "column %q", c.Name)
			}
			fmt.Fprintf(&col, " REFERENCES %s(%s)", bracketName(refTable), Bracket(refColumn))
		}
		b.WriteString(col.String())
		if hasPK || i < len(t.Columns)-1 {
			b.WriteString(",")
		}
		if c.Comment != "" {
			b.WriteString(" -- ")
			b.WriteString(c.Comment)
		}
	}
	if hasPK {
		names := make([]string, len(t.PrimaryKey))
		for i, name := range t.PrimaryKey {
			names[i] = Bracket(name)
		}
		b.WriteString("\n")
		b.WriteString("\n\tPRIMARY KEY (")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(")")
	}
	b.WriteString("\n)\n")
	return b.String(), nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/go-faster/tsql/ddl"
)

// DDLOptions configure the ddl command.
type DDLOptions struct {
	Schema      string
	IfNotExists bool
}

// AddFlags registers flags.
func (o *DDLOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Schema, "schema", o.Schema, "Path to the schema description")
	fs.BoolVar(&o.IfNotExists, "if-not-exists", o.IfNotExists, "Guard statements to run only when the table does not exist yet")
}

func newDDLCmd() *cobra.Command {
	opts := DDLOptions{
		Schema:      "schema.yml",
		IfNotExists: true,
	}
	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Generate T-SQL DDL script.",
		Long: heredoc.Doc(`
			Generate a T-SQL script creating every table of the schema.

			Statements are separated with GO batch separators, so the
			output can be fed to sqlcmd as-is.
		`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := readSchema(opts.Schema)
			if err != nil {
				return errors.Wrap(err, "read schema")
			}
			out, err := generateDDL(s, opts.IfNotExists)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

// generateDDL renders the creation script, one batch per table.
func generateDDL(s Schema, ifNotExists bool) (string, error) {
	gen := ddl.Create
	if ifNotExists {
		gen = ddl.CreateIfNotExists
	}
	var b strings.Builder
	for i, t := range s.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		q, err := gen(t)
		if err != nil {
			return "", errors.Wrapf(err, "table %q", t.Name)
		}
		b.WriteString(q)
		b.WriteString("GO\n")
	}
	return b.String(), nil
}

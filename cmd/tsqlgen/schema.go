package main

import (
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/yaml"

	"github.com/go-faster/tsql/ddl"
)

// Schema describes the tables to generate.
type Schema struct {
	Tables []ddl.Table `yaml:"tables"`
}

func readSchema(path string) (s Schema, _ error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrap(err, "read")
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrap(err, "parse")
	}
	if len(s.Tables) == 0 {
		return s, errors.New("no tables described")
	}
	for _, t := range s.Tables {
		if err := t.Validate(); err != nil {
			return s, errors.Wrap(err, "validate")
		}
	}
	return s, nil
}

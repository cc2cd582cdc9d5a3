package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chazu/primfit/pkg/config"
	"gopkg.in/yaml.v3"
)

// encode writes v as indented JSON or as YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("cannot encode as %q", format)
	}
}

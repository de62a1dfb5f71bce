package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func normalizeOutputFormat(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", outputTable, "text":
		return outputTable
	case outputJSON:
		return outputJSON
	case outputYAML, "yml":
		return outputYAML
	default:
		return ""
	}
}

func validateOutputFormat(value string) error {
	if normalizeOutputFormat(value) == "" {
		return fmt.Errorf("unsupported output format %q (use table, json, or yaml)", value)
	}
	return nil
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML encodes v as YAML to the command's stdout.
func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// emit writes v in the selected structured format, or calls text for the
// default table output.
func emit(ctx *commandContext, cmd *cobra.Command, v any, text func() error) error {
	switch ctx.outputFormat() {
	case outputJSON:
		return writeJSON(cmd, v)
	case outputYAML:
		return writeYAML(cmd, v)
	default:
		return text()
	}
}

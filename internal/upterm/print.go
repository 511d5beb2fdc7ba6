// Package upterm formats command output for the CLI's --format flag.
// Grounded on upbound-up/internal/upterm's PrintFormatted, with the
// cmd/up/globals format-string constants inlined locally (that package
// has no home in this module) and a pterm-backed table formatter added
// for the default, human-facing output shape.
package upterm

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Output selects how PrintFormatted renders a value.
type Output string

const (
	OutputDefault Output = "default"
	OutputJSON    Output = "json"
	OutputYAML    Output = "yaml"
)

// PrintFormatted prints obj as JSON or YAML per format; OutputDefault
// is the caller's responsibility (typically a pterm table via
// PrintTable) since there's no generic default rendering of obj.
func PrintFormatted(format Output, obj any) error {
	switch format {
	case OutputJSON:
		return printJSON(obj)
	case OutputYAML:
		return printYAML(obj)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func printJSON(obj any) error {
	js, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}
	fmt.Println(string(js))
	return nil
}

func printYAML(obj any) error {
	ys, err := yaml.Marshal(obj)
	if err != nil {
		return err
	}
	fmt.Println(string(ys))
	return nil
}

// PrintTable renders rows (the first row is the header) as a styled
// table, the default human-facing output for list/search/backlinks.
func PrintTable(rows [][]string) error {
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

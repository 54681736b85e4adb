package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// printResult writes text as a plain line or, for --output json, v as
// indented JSON.
func printResult(cmd *cobra.Command, format, text string, v any) error {
	out := cmd.OutOrStdout()
	if format == OutputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}

package commands

import (
	"fmt"

	"github.com/dyluth/fleetid/internal/listing"
	"github.com/dyluth/fleetid/internal/printer"
	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/spf13/cobra"
)

var parseOutput string

var parseCmd = &cobra.Command{
	Use:   "parse ID...",
	Short: "Break identifiers into parent, role and instance",
	Long: `Break identifiers into parent, role and instance.

An identifier can be well formed yet invalid: the parent may be unknown or
the role may not be allowed for it. Such identifiers are reported with
valid=false. Strings that do not match {Parent}.{Role}-{ID} at all are
reported as unparseable.

Output Formats:
  default - one line per identifier
  json    - a JSON array with one object per input`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "default", "Output format: default or json")
	rootCmd.AddCommand(parseCmd)
}

// parseResult is the JSON view of one parse input.
type parseResult struct {
	Input  string         `json:"input"`
	Parsed bool           `json:"parsed"`
	Record *naming.Record `json:"record,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseOutput != "default" && parseOutput != "json" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", parseOutput),
			[]string{"Valid formats: default, json"},
		)
	}

	f, err := loadFleet()
	if err != nil {
		return err
	}

	results := make([]parseResult, 0, len(args))
	for _, input := range args {
		rec, ok := f.schema.Parse(input)
		result := parseResult{Input: input, Parsed: ok}
		if ok {
			result.Record = &rec
		}
		results = append(results, result)
	}

	if parseOutput == "json" {
		return listing.WriteJSON(cmd.OutOrStdout(), results)
	}

	for _, r := range results {
		if !r.Parsed {
			printer.Printf("%s: not an identifier\n", r.Input)
			continue
		}
		rec := r.Record
		parent := rec.ParentKey
		if parent == "" {
			parent = "?"
		}
		printer.Printf("%s: parent=%s role=%s instance=%s valid=%t\n",
			rec.Full, parent, rec.Role, rec.InstanceID, rec.Valid)
	}
	return nil
}

package commands

import (
	"fmt"

	"github.com/dyluth/fleetid/internal/filter"
	"github.com/dyluth/fleetid/internal/listing"
	"github.com/dyluth/fleetid/internal/printer"
	"github.com/dyluth/fleetid/internal/timespec"
	"github.com/dyluth/fleetid/pkg/registry"
	"github.com/spf13/cobra"
)

var (
	listOutput string
	listSince  string
	listUntil  string
	listParent string
	listRole   string
	listSource string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List identifiers issued in the shared registry",
	Long: `List identifiers issued in the shared registry, oldest first.

Output Formats:
  default - Human-readable table with full and abbreviated identifiers
  jsonl   - Line-delimited JSON, one record per line

Time Filters:
  --since  - Issued after this time
  --until  - Issued before this time
  Both accept a duration ("2h", "3d") or an RFC3339 timestamp.

Content Filters:
  --parent - Parent key (case-insensitive)
  --role   - Role name (glob pattern: "Code*", "*Runner")
  --source - spawn or migration

Examples:
  # Everything issued under forge in the last day
  fleetid list --parent forge --since 1d

  # Migrated identifiers as JSONL for jq
  fleetid list --source migration --output jsonl | jq .legacy_label`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "default", "Output format: default or jsonl")

	// Time-based filters
	listCmd.Flags().StringVar(&listSince, "since", "", "Show identifiers issued after time (duration or RFC3339)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Show identifiers issued before time (duration or RFC3339)")

	// Content-based filters
	listCmd.Flags().StringVarP(&listParent, "parent", "p", "", "Filter by parent key")
	listCmd.Flags().StringVarP(&listRole, "role", "r", "", "Filter by role (glob pattern)")
	listCmd.Flags().StringVar(&listSource, "source", "", "Filter by source: spawn or migration")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := listing.ParseOutputFormat(listOutput)
	if err != nil {
		return printer.Error("invalid output format", err.Error(), []string{"Valid formats: default, jsonl"})
	}

	criteria, err := buildCriteria(listSince, listUntil, listParent, listRole, listSource)
	if err != nil {
		return err
	}

	f, err := loadFleet()
	if err != nil {
		return err
	}

	client, err := f.connect(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Close()

	records, err := client.ListRecords(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list identifiers: %w", err)
	}

	return listing.WriteRecords(cmd.OutOrStdout(), criteria.Apply(records), f.schema, client.Fleet(), format)
}

// buildCriteria turns list/watch flag values into filter criteria,
// reporting malformed values the way every other flag error is reported.
func buildCriteria(since, until, parent, role, source string) (*filter.Criteria, error) {
	sinceMs, untilMs, err := timespec.ParseRange(since, until)
	if err != nil {
		return nil, printer.Error(
			"invalid time filter",
			err.Error(),
			[]string{
				"Use a duration: --since 2h, --since 3d",
				"Or an RFC3339 timestamp: --since 2025-01-02T15:04:05Z",
			},
		)
	}

	criteria := &filter.Criteria{
		SinceTimestampMs: sinceMs,
		UntilTimestampMs: untilMs,
		ParentKey:        parent,
		RoleGlob:         role,
		Source:           registry.Source(source),
	}

	if source != "" {
		if err := criteria.Source.Validate(); err != nil {
			return nil, printer.Error("invalid --source", err.Error(), []string{"Valid sources: spawn, migration"})
		}
	}

	return criteria, nil
}

package commands

import (
	"fmt"

	"github.com/dyluth/fleetid/internal/listing"
	"github.com/dyluth/fleetid/internal/printer"
	"github.com/dyluth/fleetid/internal/resolver"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the registry record for one identifier",
	Long: `Show the registry record for one identifier as pretty-printed JSON.

ID may be the full identifier (Forge.CodeBuilder-04) or its abbreviated
display form (F.CB-04) as long as the abbreviation is unambiguous.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := loadFleet()
	if err != nil {
		return err
	}

	client, err := f.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	identifier, err := resolver.Resolve(ctx, client, f.schema, args[0])
	if err != nil {
		if resolver.IsNotFoundError(err) {
			return printer.Error(
				fmt.Sprintf("identifier '%s' not found", args[0]),
				fmt.Sprintf("Nothing matching '%s' has been issued in fleet '%s'.", args[0], client.Fleet()),
				[]string{"List issued identifiers:\n  fleetid list"},
			)
		}
		if ambErr, ok := err.(*resolver.AmbiguousError); ok {
			return printer.Error(
				fmt.Sprintf("ambiguous identifier '%s'", args[0]),
				resolver.FormatAmbiguousError(ambErr),
				[]string{"Use the full identifier instead"},
			)
		}
		return err
	}

	record, err := client.GetRecord(ctx, identifier)
	if err != nil {
		return fmt.Errorf("failed to load record for %s: %w", identifier, err)
	}

	return listing.WriteJSON(cmd.OutOrStdout(), record)
}

package commands

import (
	"github.com/dyluth/fleetid/internal/printer"
	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/spf13/cobra"
)

var displayFormat string

var displayCmd = &cobra.Command{
	Use:   "display ID...",
	Short: "Render identifiers for humans",
	Long: `Render identifiers in full or abbreviated form.

The abbreviated form keeps the parent's initial and the role abbreviation:
Forge.CodeBuilder-04 becomes F.CB-04. Inputs that are not valid
identifiers are printed unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDisplay,
}

func init() {
	displayCmd.Flags().StringVar(&displayFormat, "format", "abbreviated", "Display format: full or abbreviated")
	rootCmd.AddCommand(displayCmd)
}

func runDisplay(cmd *cobra.Command, args []string) error {
	format, err := naming.ParseFormat(displayFormat)
	if err != nil {
		return printer.Error("invalid --format", err.Error(), []string{"Valid formats: full, abbreviated"})
	}

	f, err := loadFleet()
	if err != nil {
		return err
	}

	for _, id := range args {
		printer.Println(f.schema.DisplayName(id, format))
	}
	return nil
}

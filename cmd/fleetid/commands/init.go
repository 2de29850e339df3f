package commands

import (
	"github.com/dyluth/fleetid/internal/printer"
	"github.com/dyluth/fleetid/internal/scaffold"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter fleetid.yml",
	Long: `Write a starter fleetid.yml at --config.

The file lists the stock parents, the eight core roles, the legacy
migration table and an empty registry section. Edit it to add parents,
custom roles or a Redis URL.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := scaffold.Initialize(configPath, initForce); err != nil {
		return printer.Error(
			"initialization failed",
			err.Error(),
			nil,
		)
	}

	printer.Success("Created %s\n", configPath)
	printer.Info("\nNext steps:\n")
	printer.Info("  1. Add parents or custom_roles for your fleet\n")
	printer.Info("  2. Set registry.url to share allocation across processes\n")
	printer.Info("  3. Run 'fleetid roles' to check the result\n")
	return nil
}

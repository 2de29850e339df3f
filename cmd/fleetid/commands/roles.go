package commands

import (
	"fmt"

	"github.com/dyluth/fleetid/internal/listing"
	"github.com/dyluth/fleetid/internal/printer"
	"github.com/spf13/cobra"
)

var (
	rolesParent string
	rolesOutput string
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the roles in the schema",
	Long: `List core and custom roles with their abbreviations and allowed parents.

Use --parent to show only the roles a given parent may spawn.`,
	Args: cobra.NoArgs,
	RunE: runRoles,
}

func init() {
	rolesCmd.Flags().StringVarP(&rolesParent, "parent", "p", "", "Only roles allowed for this parent")
	rolesCmd.Flags().StringVarP(&rolesOutput, "output", "o", "default", "Output format: default or jsonl")
	rootCmd.AddCommand(rolesCmd)
}

func runRoles(cmd *cobra.Command, args []string) error {
	format, err := listing.ParseOutputFormat(rolesOutput)
	if err != nil {
		return printer.Error("invalid output format", err.Error(), []string{"Valid formats: default, jsonl"})
	}

	f, err := loadFleet()
	if err != nil {
		return err
	}

	roles := f.schema.Roles()
	if rolesParent != "" {
		if _, ok := f.schema.Parent(rolesParent); !ok {
			return printer.Error(
				fmt.Sprintf("unknown parent '%s'", rolesParent),
				"The parent is not defined in the schema.",
				nil,
			)
		}
		roles = f.schema.RolesFor(rolesParent)
	}

	return listing.WriteRoles(cmd.OutOrStdout(), roles, format)
}

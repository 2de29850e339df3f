package commands

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dyluth/fleetid/internal/printer"
	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/dyluth/fleetid/pkg/registry"
	"github.com/spf13/cobra"
)

var (
	migrateParent string
	migrateFile   string
	migrateCommit bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [LABEL]",
	Short: "Convert legacy agent labels into identifiers",
	Long: `Convert free-form legacy labels into canonical identifiers.

The role is chosen by the first keyword rule matching the label, falling
back to the parent's default role. A trailing "-vN" or "-N" becomes the
instance id; otherwise 01 is used.

Single label:
  fleetid migrate forge-data-bridge-v2 --parent forge

Batch (one "label,parent" per line, '#' starts a comment):
  fleetid migrate --file labels.csv

With --commit each identifier is recorded in the shared registry;
identifiers already issued are reported and skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateParent, "parent", "p", "", "Parent key for a single label")
	migrateCmd.Flags().StringVarP(&migrateFile, "file", "f", "", "CSV file of label,parent lines ('-' for stdin)")
	migrateCmd.Flags().BoolVar(&migrateCommit, "commit", false, "Record migrated identifiers in the shared registry")
	rootCmd.AddCommand(migrateCmd)
}

// migration is one legacy label to convert.
type migration struct {
	Label  string
	Parent string
}

func runMigrate(cmd *cobra.Command, args []string) error {
	var items []migration
	switch {
	case len(args) == 1 && migrateFile == "":
		if migrateParent == "" {
			return printer.Error(
				"missing --parent",
				"A single label needs the parent it belongs to.",
				[]string{fmt.Sprintf("fleetid migrate %s --parent forge", args[0])},
			)
		}
		items = []migration{{Label: args[0], Parent: migrateParent}}
	case len(args) == 0 && migrateFile != "":
		var err error
		items, err = readMigrations(cmd.InOrStdin(), migrateFile)
		if err != nil {
			return printer.Error("cannot read --file", err.Error(), []string{"Each line must be: label,parent"})
		}
	default:
		return printer.Error(
			"nothing to migrate",
			"Give either one LABEL with --parent, or --file.",
			[]string{
				"fleetid migrate forge-builder-v3 --parent forge",
				"fleetid migrate --file labels.csv",
			},
		)
	}

	f, err := loadFleet()
	if err != nil {
		return err
	}

	var client *registry.Client
	if migrateCommit {
		client, err = f.connect(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()
	}

	batch := naming.NewLedger(f.alloc)
	unmapped, failed := 0, 0
	for _, item := range items {
		id, ok := f.migrator.Migrate(item.Label, item.Parent)
		if !ok {
			unmapped++
			printer.Warning("%s (%s): no role mapping\n", item.Label, item.Parent)
			continue
		}

		if err := commitMigration(cmd.Context(), batch, client, id, item.Label); err != nil {
			failed++
			printer.Warning("%s -> %s: %v\n", item.Label, id, err)
			continue
		}
		printer.Printf("%s -> %s\n", item.Label, id)
	}

	if unmapped > 0 || failed > 0 {
		return printer.Error(
			"migration incomplete",
			fmt.Sprintf("%d of %d labels migrated (%d unmapped, %d rejected)", len(items)-unmapped-failed, len(items), unmapped, failed),
			[]string{"Add keyword rules or parent defaults under migration: in fleetid.yml"},
		)
	}
	return nil
}

// commitMigration records id in the batch ledger, so two labels in one run
// cannot claim the same identifier, and then in the registry when client is set.
func commitMigration(ctx context.Context, batch *naming.Ledger, client *registry.Client, id naming.Identifier, label string) error {
	if err := batch.Commit(id.String()); err != nil {
		if errors.Is(err, naming.ErrAlreadyIssued) {
			return fmt.Errorf("already claimed by an earlier label")
		}
		return err
	}
	if client == nil {
		return nil
	}

	_, err := client.Commit(ctx, id.String(), label)
	if errors.Is(err, naming.ErrAlreadyIssued) {
		return fmt.Errorf("already issued in fleet '%s'", client.Fleet())
	}
	return err
}

// readMigrations parses "label,parent" lines from path ("-" = stdin).
func readMigrations(stdin io.Reader, path string) ([]migration, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}

	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var items []migration
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		label := strings.TrimSpace(fields[0])
		parent := strings.TrimSpace(fields[1])
		if label == "" || parent == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: label and parent are both required", line)
		}
		items = append(items, migration{Label: label, Parent: parent})
	}
	return items, nil
}

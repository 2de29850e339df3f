package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dyluth/fleetid/internal/printer"
	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/spf13/cobra"
)

var (
	generateExisting string
	generateStore    bool
	generateCount    int
	generateFormat   string
)

var generateCmd = &cobra.Command{
	Use:   "generate PARENT ROLE",
	Short: "Allocate the next identifier for a parent and role",
	Long: `Allocate the next identifier for a parent and role.

Stateless mode (default):
  The next id is computed from --existing, a file with one identifier per
  line ("-" reads stdin). Nothing is recorded.

Registry mode (--store):
  The id is allocated and recorded in the shared registry atomically, so
  concurrent callers never receive the same identifier.

Examples:
  # First CodeBuilder under Forge
  fleetid generate forge CodeBuilder

  # Continue after ids already in use
  fleetid generate forge CodeBuilder --existing agents.txt

  # Allocate three ids in the shared registry
  fleetid generate atlas OpsRunner --store --count 3`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateExisting, "existing", "e", "", "File of identifiers already issued ('-' for stdin)")
	generateCmd.Flags().BoolVar(&generateStore, "store", false, "Allocate in the shared registry")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "Number of identifiers to allocate")
	generateCmd.Flags().StringVar(&generateFormat, "format", "full", "Display format: full or abbreviated")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	parentKey, role := args[0], args[1]

	if generateCount < 1 {
		return printer.Error("invalid --count", fmt.Sprintf("--count must be at least 1, got %d", generateCount), nil)
	}
	if generateStore && generateExisting != "" {
		return printer.Error(
			"conflicting flags",
			"--existing and --store cannot be combined: the registry already knows what was issued.",
			[]string{"Drop --existing when allocating in the registry"},
		)
	}

	format, err := naming.ParseFormat(generateFormat)
	if err != nil {
		return printer.Error("invalid --format", err.Error(), []string{"Valid formats: full, abbreviated"})
	}

	f, err := loadFleet()
	if err != nil {
		return err
	}

	if _, _, err := f.alloc.Resolve(parentKey, role); err != nil {
		return allocationError(f, parentKey, role, err)
	}

	var issued []string
	if generateStore {
		issued, err = generateInRegistry(cmd.Context(), f, parentKey, role)
	} else {
		issued, err = generateStateless(cmd, f, parentKey, role)
	}
	if err != nil {
		return err
	}

	for _, id := range issued {
		printer.Println(f.schema.DisplayName(id, format))
	}
	return nil
}

func generateStateless(cmd *cobra.Command, f *fleet, parentKey, role string) ([]string, error) {
	var existing []string
	if generateExisting != "" {
		var err error
		existing, err = readIdentifiers(cmd.InOrStdin(), generateExisting)
		if err != nil {
			return nil, printer.Error("cannot read --existing", err.Error(), nil)
		}
	}

	// A local ledger keeps --count allocations monotonic within this run
	ledger := naming.NewLedger(f.alloc, existing...)

	issued := make([]string, 0, generateCount)
	for i := 0; i < generateCount; i++ {
		id, err := ledger.Spawn(parentKey, role)
		if err != nil {
			return nil, allocationError(f, parentKey, role, err)
		}
		issued = append(issued, id.String())
	}
	return issued, nil
}

func generateInRegistry(ctx context.Context, f *fleet, parentKey, role string) ([]string, error) {
	client, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	issued := make([]string, 0, generateCount)
	for i := 0; i < generateCount; i++ {
		record, err := client.Spawn(ctx, parentKey, role)
		if err != nil {
			return nil, allocationError(f, parentKey, role, err)
		}
		issued = append(issued, record.Identifier)
	}
	return issued, nil
}

// allocationError renders allocator failures with a hint for each cause.
func allocationError(f *fleet, parentKey, role string, err error) error {
	var suggestions []string
	switch {
	case errors.Is(err, naming.ErrInvalidParent):
		var keys []string
		for _, p := range f.schema.Parents() {
			keys = append(keys, p.Key)
		}
		suggestions = []string{"Known parents: " + strings.Join(keys, ", ")}
	case errors.Is(err, naming.ErrInvalidRole), errors.Is(err, naming.ErrRoleNotAllowed):
		var names []string
		for _, r := range f.schema.RolesFor(parentKey) {
			names = append(names, r.Name)
		}
		if len(names) > 0 {
			suggestions = []string{fmt.Sprintf("Roles allowed for %s: %s", parentKey, strings.Join(names, ", "))}
		}
	case errors.Is(err, naming.ErrAddressSpaceExhausted):
		suggestions = []string{"Every id from 01 to Z9 is taken for this pair; use another role or parent"}
	}

	return printer.Error(
		fmt.Sprintf("cannot allocate %s for %s", role, parentKey),
		err.Error(),
		suggestions,
	)
}

// readIdentifiers reads one identifier per line from path ("-" = stdin).
// Blank lines and lines starting with '#' are skipped.
func readIdentifiers(stdin io.Reader, path string) ([]string, error) {
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

	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ids, nil
}

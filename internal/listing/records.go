package listing

import (
	"fmt"
	"io"
	"time"

	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/dyluth/fleetid/pkg/registry"
	"github.com/olekukonko/tablewriter"
)

// WriteRecords renders records in the requested format.
func WriteRecords(w io.Writer, records []*registry.SpawnRecord, schema *naming.Schema, fleet string, format OutputFormat) error {
	switch format {
	case OutputFormatDefault, "":
		return RecordTable(w, records, schema, fleet, time.Now())
	case OutputFormatJSONL:
		return WriteJSONL(w, records)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// RecordTable writes records as a table with columns IDENTIFIER, SHORT,
// SOURCE, LEGACY LABEL and AGE, followed by a count line.
func RecordTable(w io.Writer, records []*registry.SpawnRecord, schema *naming.Schema, fleet string, now time.Time) error {
	if len(records) == 0 {
		fmt.Fprintf(w, "No identifiers issued in fleet '%s'\n", fleet)
		return nil
	}

	fmt.Fprintf(w, "Identifiers in fleet '%s':\n\n", fleet)

	table := tablewriter.NewWriter(w)
	table.Header("IDENTIFIER", "SHORT", "SOURCE", "LEGACY LABEL", "AGE")
	for _, r := range records {
		row := []string{
			r.Identifier,
			schema.DisplayName(r.Identifier, naming.FormatAbbreviated),
			string(r.Source),
			dash(r.LegacyLabel),
			formatAge(r.CreatedAtMs, now),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to build table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(w, "\n%d %s found\n", len(records), plural(len(records), "identifier", "identifiers"))
	return nil
}

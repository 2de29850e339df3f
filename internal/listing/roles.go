package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/olekukonko/tablewriter"
)

// RoleRow is the listing view of one role.
type RoleRow struct {
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation"`
	Category     string   `json:"category"`
	Parents      []string `json:"parents"`
	Description  string   `json:"description,omitempty"`
}

// RoleRows converts schema roles into listing rows. Core roles are
// categorised as "core" unless the config names a category.
func RoleRows(roles []naming.Role) []RoleRow {
	rows := make([]RoleRow, 0, len(roles))
	for _, r := range roles {
		category := r.Category
		if category == "" && r.Core {
			category = "core"
		}
		rows = append(rows, RoleRow{
			Name:         r.Name,
			Abbreviation: r.Abbreviation,
			Category:     category,
			Parents:      append([]string(nil), r.AllowedParents...),
			Description:  r.Description,
		})
	}
	return rows
}

// WriteRoles renders roles in the requested format.
func WriteRoles(w io.Writer, roles []naming.Role, format OutputFormat) error {
	rows := RoleRows(roles)
	switch format {
	case OutputFormatDefault, "":
		return RoleTable(w, rows)
	case OutputFormatJSONL:
		return WriteJSONL(w, rows)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// RoleTable writes roles as a table with columns ROLE, ABBR, CATEGORY and PARENTS.
func RoleTable(w io.Writer, rows []RoleRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No roles defined")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ROLE", "ABBR", "CATEGORY", "PARENTS")
	for _, r := range rows {
		if err := table.Append([]string{r.Name, r.Abbreviation, dash(r.Category), strings.Join(r.Parents, ", ")}); err != nil {
			return fmt.Errorf("failed to build table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(w, "\n%d %s\n", len(rows), plural(len(rows), "role", "roles"))
	return nil
}

package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	schema := DefaultSchema()

	testCases := []struct {
		name   string
		input  string
		format Format
		want   string
	}{
		{name: "full", input: "Forge.CodeBuilder-01", format: FormatFull, want: "Forge.CodeBuilder-01"},
		{name: "abbreviated", input: "Forge.CodeBuilder-01", format: FormatAbbreviated, want: "F.CB-01"},
		{name: "abbreviated alpha", input: "Atlas.DataProcessor-B3", format: FormatAbbreviated, want: "A.DP-B3"},
		{name: "full passes garbage through", input: "not an id", format: FormatFull, want: "not an id"},
		{name: "abbreviated passes garbage through", input: "not an id", format: FormatAbbreviated, want: "not an id"},
		{name: "abbreviated passes invalid pairing through", input: "Echo.CodeBuilder-01", format: FormatAbbreviated, want: "Echo.CodeBuilder-01"},
		{name: "abbreviated passes unknown role through", input: "Forge.RetiredRole-02", format: FormatAbbreviated, want: "Forge.RetiredRole-02"},
		{name: "empty", input: "", format: FormatAbbreviated, want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, schema.DisplayName(tc.input, tc.format))
		})
	}
}

func TestDisplayName_CustomRole(t *testing.T) {
	schema := DefaultSchema()
	_, err := schema.RegisterRole(RoleDefinition{Name: "MLEngineer", Abbreviation: "MLE", Parents: []string{"atlas"}})
	require.NoError(t, err)

	assert.Equal(t, "A.MLE-12", schema.DisplayName("Atlas.MLEngineer-12", FormatAbbreviated))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("full")
	require.NoError(t, err)
	assert.Equal(t, FormatFull, f)

	f, err = ParseFormat("abbreviated")
	require.NoError(t, err)
	assert.Equal(t, FormatAbbreviated, f)
	assert.Equal(t, "abbreviated", f.String())

	_, err = ParseFormat("fancy")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown display format")
}

package timespec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAt(t *testing.T) {
	now := time.Date(2025, 10, 29, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		spec    string
		want    time.Time
		wantErr string
	}{
		{name: "rfc3339", spec: "2025-10-29T13:00:00Z", want: time.Date(2025, 10, 29, 13, 0, 0, 0, time.UTC)},
		{name: "hours", spec: "1h", want: now.Add(-time.Hour)},
		{name: "compound duration", spec: "1h30m", want: now.Add(-90 * time.Minute)},
		{name: "days", spec: "7d", want: now.AddDate(0, 0, -7)},
		{name: "empty", spec: "", wantErr: "empty time specification"},
		{name: "garbage", spec: "yesterday", wantErr: "invalid time specification"},
		{name: "negative days", spec: "-3d", wantErr: "invalid time specification"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAt(tc.spec, now)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want.UnixMilli(), got)
		})
	}
}

func TestParseRange(t *testing.T) {
	t.Run("no bounds", func(t *testing.T) {
		since, until, err := ParseRange("", "")
		require.NoError(t, err)
		assert.Zero(t, since)
		assert.Zero(t, until)
	})

	t.Run("ordered bounds", func(t *testing.T) {
		since, until, err := ParseRange("2h", "1h")
		require.NoError(t, err)
		assert.Less(t, since, until)
	})

	t.Run("reversed bounds", func(t *testing.T) {
		_, _, err := ParseRange("1h", "2h")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--since must be before --until")
	})

	t.Run("bad since", func(t *testing.T) {
		_, _, err := ParseRange("soon", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --since")
	})

	t.Run("bad until", func(t *testing.T) {
		_, _, err := ParseRange("", "later")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --until")
	})
}

package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dyluth/fleetid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name      string
		force     bool
		setupFunc func(path string)
		wantErr   string
	}{
		{
			name:      "fresh initialization",
			setupFunc: func(path string) {},
		},
		{
			name:  "existing file without force",
			force: false,
			setupFunc: func(path string) {
				require.NoError(t, os.WriteFile(path, []byte("old content"), 0644))
			},
			wantErr: "already exists",
		},
		{
			name:  "force overwrites existing file",
			force: true,
			setupFunc: func(path string) {
				require.NoError(t, os.WriteFile(path, []byte("old content"), 0644))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fleetid.yml")
			tt.setupFunc(path)

			err := Initialize(path, tt.force)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				content, readErr := os.ReadFile(path)
				require.NoError(t, readErr)
				assert.Equal(t, "old content", string(content))
				return
			}
			require.NoError(t, err)

			cfg, err := config.Load(path)
			require.NoError(t, err)
			assert.Equal(t, config.DefaultFleet, cfg.Fleet)
		})
	}
}

func TestInitialize_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "conf", "fleetid.yml")
	require.NoError(t, Initialize(path, false))
	assert.FileExists(t, path)
}

// The template must describe the same fleet as the built-in defaults, so
// running with and without an initialised file behaves identically.
func TestTemplate_MatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleetid.yml")
	require.NoError(t, Initialize(path, false))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	defaults := config.Default()

	assert.Equal(t, defaults.Parents, loaded.Parents)
	assert.Equal(t, defaults.Roles, loaded.Roles)
	assert.Equal(t, defaults.Migration.Rules, loaded.Migration.Rules)
	assert.Equal(t, defaults.Migration.Defaults, loaded.Migration.Defaults)
	assert.Equal(t, *defaults.Registry.MaxRetries, *loaded.Registry.MaxRetries)
	assert.Empty(t, loaded.Registry.URL)
}

func TestCheckExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fleetid.yml")

	assert.NoError(t, CheckExisting(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	err := CheckExisting(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fleetid init --force")
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubgen/internal/config"
	"stubgen/internal/gen"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".stubgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, gen.DefaultSettings(), cfg.Generation)
	assert.Equal(t, config.DefaultProvider, cfg.Analysis.Provider)
	assert.Equal(t, config.DefaultJobs, cfg.Batch.Jobs)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	content := `generation:
  indent_unit: "  "
  body: zero
  comments: false
  delegate: true
  import_order: [std, example.com]
  import_threshold: 0
analysis:
  provider: packages
  pkg_path: example.com/shop
batch:
  jobs: 2
log:
  level: debug
`

	cfg, err := config.LoadConfig(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, "  ", cfg.Generation.IndentUnit)
	assert.Equal(t, gen.BodyZero, cfg.Generation.Body)
	assert.False(t, cfg.Generation.Comments)
	assert.True(t, cfg.Generation.Delegate)
	assert.Equal(t, []string{"std", "example.com"}, cfg.Generation.ImportOrder)
	assert.Zero(t, cfg.Generation.ImportThreshold)
	assert.Equal(t, config.ProviderPackages, cfg.Analysis.Provider)
	assert.Equal(t, "example.com/shop", cfg.Analysis.PkgPath)
	assert.Equal(t, 2, cfg.Batch.Jobs)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("STUBGEN_GENERATION_BODY", "zero")
	t.Setenv("STUBGEN_BATCH_JOBS", "9")

	cfg, err := config.LoadConfig(writeConfig(t, "batch:\n  jobs: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, gen.BodyZero, cfg.Generation.Body)
	assert.Equal(t, 9, cfg.Batch.Jobs)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "body", content: "generation:\n  body: magic\n", wantErr: gen.ErrInvalidSettings},
		{name: "provider", content: "analysis:\n  provider: lsp\n", wantErr: config.ErrInvalidProvider},
		{name: "jobs", content: "batch:\n  jobs: 0\n", wantErr: config.ErrInvalidJobs},
		{name: "log level", content: "log:\n  level: loud\n", wantErr: config.ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "generation: [unclosed\n"))
	require.Error(t, err)
}

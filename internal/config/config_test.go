package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("root", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Prune)
	assert.False(t, cfg.Write)
	assert.False(t, cfg.Check)
	assert.False(t, cfg.JSONLDOnly)
	assert.False(t, cfg.IncludeEmpty)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("root", t.TempDir())
	viper.Set("prune", false)
	viper.Set("jsonld_only", true)
	viper.Set("format", FormatJSON)
	viper.Set("excludes", []string{"drafts", "generated"})

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Prune)
	assert.True(t, cfg.JSONLDOnly)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, []string{"drafts", "generated"}, cfg.Excludes)
}

func TestLoadResolvesRootToAbsolute(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("root", ".")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.Root))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Root: dir, Format: FormatText},
		},
		{
			name:    "missing root",
			cfg:     Config{Root: filepath.Join(dir, "nope"), Format: FormatText},
			wantErr: "ROOT_NOT_FOUND",
		},
		{
			name:    "root is a file",
			cfg:     Config{Root: file, Format: FormatText},
			wantErr: "ROOT_NOT_DIR",
		},
		{
			name:    "bad format",
			cfg:     Config{Root: dir, Format: "xml"},
			wantErr: "BAD_FORMAT",
		},
		{
			name:    "watch with check",
			cfg:     Config{Root: dir, Format: FormatYAML, Watch: true, Check: true},
			wantErr: "WATCH_CHECK_CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvironmentOverride(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.SetEnvPrefix("CSPSYNC")
	viper.AutomaticEnv()
	t.Setenv("CSPSYNC_FORMAT", FormatYAML)
	viper.Set("root", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, cfg.Format)
}

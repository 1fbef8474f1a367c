package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statichost/cspsync/internal/errors"
)

func resetFlags(t *testing.T) {
	t.Helper()
	viper.Reset()
	bindFlags()
	noPrune = false
	cfgFile = ""
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	rootCmd.SetArgs(nil)
	t.Cleanup(func() {
		viper.Reset()
		noPrune = false
		cfgFile = ""
	})
}

const testDoc = `<!doctype html>
<head><meta http-equiv="Content-Security-Policy" content="script-src 'self'"></head>
<body><script>console.log(1)</script></body>`

func TestRootCommandDryRun(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(testDoc), 0644))

	rootCmd.SetArgs([]string{"--root", dir})
	err := rootCmd.Execute()
	require.NoError(t, err)

	// Dry run leaves the file untouched.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testDoc, string(raw))
}

func TestRootCommandWrite(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(testDoc), 0644))

	rootCmd.SetArgs([]string{"--root", dir, "--write"})
	require.NoError(t, rootCmd.Execute())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "'sha256-")
}

func TestRootCommandCheckFailsOnPendingChanges(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(testDoc), 0644))

	rootCmd.SetArgs([]string{"--root", dir, "--check"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Equal(t, errors.ExitDirty, errors.ExitCode(err))

	// Check mode never writes.
	raw, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Equal(t, testDoc, string(raw))
}

func TestRootCommandCheckPassesWhenClean(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(testDoc), 0644))

	rootCmd.SetArgs([]string{"--root", dir, "--write"})
	require.NoError(t, rootCmd.Execute())

	resetFlags(t)
	rootCmd.SetArgs([]string{"--root", dir, "--check"})
	assert.NoError(t, rootCmd.Execute())
}

func TestRootCommandBadRootExitsConfig(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"--root", filepath.Join(t.TempDir(), "nope")})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errors.ExitConfig, errors.ExitCode(err))
}

package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	TargetFrame string `json:"target_frame"`
	SaveDir     string `json:"save_dir"`
}

func TestReadConfigMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json5")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{target_frame: "TargetContent", save_dir: "cards"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.local.json5"),
		[]byte(`{save_dir: "/tmp/cards"}`), 0o644))

	config, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		TargetFrame: "TargetContent",
		SaveDir:     "/tmp/cards",
	}, config)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.local.json5"),
		[]byte(`{target_frame: "Main"}`), 0o644))

	config, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.NoError(t, err)
	require.Equal(t, "Main", config.TargetFrame)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "app.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

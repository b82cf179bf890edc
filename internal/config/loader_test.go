package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/toyquery/internal/dataset"
)

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("data-dir", DefaultDataDir, "")
	flags.String("source", DefaultSource, "")
	flags.String("format", DefaultFormat, "")
	flags.String("log-level", DefaultLogLevel, "")
	flags.Bool("color", true, "")
	return flags
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toyquery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, used, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, used)
	assert.Equal(t, &Config{
		DataDir:  DefaultDataDir,
		Source:   DefaultSource,
		Format:   DefaultFormat,
		LogLevel: DefaultLogLevel,
		Color:    true,
	}, cfg)
	assert.Equal(t, dataset.SourceAuto, cfg.DatasetSource())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, "data_dir: /srv/world\nformat: json\nprompt: \"> \"\ncolor: false\n")

	cfg, used, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.Equal(t, "/srv/world", cfg.DataDir)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "> ", cfg.Prompt)
	assert.False(t, cfg.Color)
	assert.Equal(t, DefaultSource, cfg.Source)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "data_dir: from-file\nsource: csv\nformat: json\n")
	t.Setenv("TOYQUERY_DATA_DIR", "from-env")
	t.Setenv("TOYQUERY_SOURCE", "parquet")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--data-dir", "from-flag"}))

	cfg, _, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.DataDir, "flag beats env")
	assert.Equal(t, "parquet", cfg.Source, "env beats file")
	assert.Equal(t, dataset.SourceParquet, cfg.DatasetSource())
	assert.Equal(t, "json", cfg.Format, "file beats default")
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	path := writeConfig(t, "format: markdown\n")

	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, _, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"source", "source: sqlite\n"},
		{"format", "format: xml\n"},
		{"log level", "log_level: chatty\n"},
		{"empty data dir", "data_dir: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tt.content), nil)
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

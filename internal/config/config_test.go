package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/nrdb"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nrdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "", "")
	fs.Bool("pretty", false, "")
	fs.String("hash", "", "")
	fs.StringSlice("convert-exclude", nil, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultHash, cfg.Hash)
	assert.True(t, cfg.Convert)
	assert.False(t, cfg.Pretty)
	assert.Empty(t, cfg.File)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
log_level: info
pretty: true
hash: fnv1a
convert_exclude: [zip, phone]
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.True(t, cfg.Pretty)
		assert.Equal(t, "fnv1a", cfg.Hash)
		assert.Equal(t, []string{"zip", "phone"}, cfg.ConvertExclude)
		assert.Equal(t, path, cfg.File)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("NRDB_HASH", "blake2b")
		t.Setenv("NRDB_PRETTY", "false")
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "blake2b", cfg.Hash)
		assert.False(t, cfg.Pretty)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("NRDB_HASH", "blake2b")
		fs := testFlags()
		require.NoError(t, fs.Parse([]string{"--hash", "xxh3", "--log-level", "debug"}))

		cfg, err := Load(path, fs)
		require.NoError(t, err)
		assert.Equal(t, "xxh3", cfg.Hash)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.Pretty, "unset flag must not override the file")
	})

	t.Run("slice flag", func(t *testing.T) {
		fs := testFlags()
		require.NoError(t, fs.Parse([]string{"--convert-exclude", "a,b"}))

		cfg, err := Load(path, fs)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, cfg.ConvertExclude)
	})
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("compress: true\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Compress)
	assert.Equal(t, DefaultFile, cfg.File)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad hash", "hash: md5\n", "invalid hash"},
		{"bad level", "log_level: loud\n", "invalid log_level"},
		{"bad format", "log_format: xml\n", "invalid log_format"},
		{"bad yaml", "pretty: [\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestConfig_HashAlgorithm(t *testing.T) {
	tests := map[string]int{
		"xxh3":    nrdb.AlgXXHash3,
		"FNV1a":   nrdb.AlgFNV1a,
		"blake2b": nrdb.AlgBlake2b,
	}
	for name, want := range tests {
		got, err := (&Config{Hash: name}).HashAlgorithm()
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestConfig_Database(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json", Hash: "blake2b", SkipSync: true}
	require.NoError(t, cfg.Validate())

	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	dbc := cfg.Database(log)
	assert.Equal(t, nrdb.AlgBlake2b, dbc.HashAlgorithm)
	assert.True(t, dbc.SkipSync)
	assert.Same(t, log, dbc.Logger)
}

func TestConfig_TableOptions(t *testing.T) {
	cfg := &Config{Convert: false, ConvertExclude: []string{"zip"}}
	tbl := nrdb.New(nrdb.Config{}).InitTable("t", cfg.TableOptions()...)

	assert.False(t, tbl.Convert())
	assert.Equal(t, []string{"zip"}, tbl.ConvertExclude())
}

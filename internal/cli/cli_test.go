package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonCommandArg(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCanonCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{`{"b": 1, "a": [true, null]}`})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,null],"b":1}`+"\n", buf.String())
}

func TestCanonCommandStdin(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCanonCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader(`{"z": 0.5, "a": "ü"}`))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, `{"a":"ü","z":0.5}`+"\n", buf.String())
}

func TestCanonCommandInvalidJSON(t *testing.T) {
	cmd := NewCanonCommand(&RootOptions{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{`{"unterminated": `})

	err := cmd.Execute()
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `driver: postgres
host: db.example.org
port: 5433
database: registry
user: register
password: secret
sslmode: require
table_name: objects
cache_size: 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, "db.example.org", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "registry", cfg.Database)
	assert.Equal(t, "objects", cfg.TableName)
	assert.Equal(t, 500, cfg.CacheSize)
	// Unset fields stay zero so registrar defaults apply.
	assert.Equal(t, "", cfg.IDColumn)
	assert.Equal(t, 0, cfg.PoolSize)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: sqlite3\ncache_sise: 100\n"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache_sise")
}

func TestLoadConfigEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Driver)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestRegisterCommandSQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "register.db")
	content := "driver: sqlite3\npath: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	run := func(input string, extra ...string) []string {
		buf := &bytes.Buffer{}
		cmd := NewRegisterCommand(&RootOptions{ConfigPath: cfgPath})
		cmd.SetOut(buf)
		cmd.SetIn(strings.NewReader(input))
		cmd.SetArgs(extra)
		require.NoError(t, cmd.Execute())
		return strings.Fields(buf.String())
	}

	first := run("{\"a\": 1}\n{\"b\": 2}\n", "--init")
	require.Len(t, first, 2)
	assert.NotEqual(t, first[0], first[1])

	// Same documents, key order permuted, batched: same ids back.
	second := run("{\"b\": 2}\n\n{\"a\": 1}\n", "--batch")
	require.Len(t, second, 2)
	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[1])
}

func TestPingCommandSQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "driver: sqlite3\npath: " + filepath.Join(dir, "ping.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	buf := &bytes.Buffer{}
	cmd := NewPingCommand(&RootOptions{ConfigPath: cfgPath})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "ok\n", buf.String())
}

func TestRootCommandSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "canon")
	assert.Contains(t, names, "register")
	assert.Contains(t, names, "ping")
}

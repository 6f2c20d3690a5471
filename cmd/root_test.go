package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/fxed/pkg/settings"
)

const testConfig = `
editor:
  debounce: 5ms
logging:
  level: error
properties:
  - name: status
    label: Status
    options:
      - { label: Active, value: active }
      - { label: Closed, value: closed }
  - name: age
    label: Age
    type: number
`

func resetFlags() {
	configFile, dataFile, debounce, logFile = "", "", "", ""
	noColor, renderSnapshot = false, false
	startKeys = nil
	logLevel.value = ""
	output.value = settings.OutputText
	snapshotWidth, snapshotHeight = 0, 0
	for _, fs := range []*pflag.FlagSet{rootCmd.Flags(), rootCmd.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return lines[len(lines)-1]
}

func TestSnapshotPrintsExpression(t *testing.T) {
	cfg := writeFile(t, "fxed.yaml", testConfig)
	out, err := execute(t, "--config-file", cfg, "--snapshot", "--no-color", "--width", "80", "--height", "20",
		"--press", "sta<CR><CR><CR>", "--press", "age<CR>greater<CR>21<CR>")
	require.NoError(t, err)

	assert.Equal(t, `status = "active" AND age > 21`, lastLine(out))
	assert.Contains(t, out, "Status equals Active AND Age greater than 21")
}

func TestSnapshotCELOutput(t *testing.T) {
	cfg := writeFile(t, "fxed.toml", `
[editor]
debounce = "5ms"

[[properties]]
name = "age"
type = "number"
`)
	out, err := execute(t, "--config-file", cfg, "--snapshot", "--no-color", "-o", "cel",
		"--press", "age<CR>at most<CR>65<CR>")
	require.NoError(t, err)
	assert.Equal(t, "age <= 65.0", lastLine(out))
}

func TestSnapshotEmptyExpression(t *testing.T) {
	cfg := writeFile(t, "fxed.yaml", testConfig)
	out, err := execute(t, "--config-file", cfg, "--snapshot", "--no-color", "-o", "cel")
	require.NoError(t, err)
	assert.Equal(t, "true", lastLine(out))
}

func TestSnapshotCancelled(t *testing.T) {
	cfg := writeFile(t, "fxed.yaml", testConfig)
	_, err := execute(t, "--config-file", cfg, "--snapshot", "--no-color", "--press", "sta<C-c>")
	require.ErrorIs(t, err, ErrCancelled)
}

func TestDataColumnsBecomeProperties(t *testing.T) {
	data := writeFile(t, "customers.csv", "name,city,age\nAda,Paris,36\nBob,Parma,41\nCy,Berlin,29\n")
	cfg := writeFile(t, "fxed.yaml", "editor:\n  debounce: 5ms\nproperties: []\n")

	out, err := execute(t, "--config-file", cfg, "--data", data, "--snapshot", "--no-color",
		"--press", "city<CR><CR>par<Down><CR>")
	require.NoError(t, err)
	assert.Equal(t, `city = "Parma"`, lastLine(out))

	out, err = execute(t, "--config-file", cfg, "--data", data, "--snapshot", "--no-color",
		"--press", "age<CR><CR>4<Tab>")
	require.NoError(t, err)
	assert.Equal(t, "age = 41", lastLine(out), "numeric columns yield numeric values")
}

func TestPropertiesCommand(t *testing.T) {
	cfg := writeFile(t, "fxed.yaml", testConfig)
	out, err := execute(t, "properties", "--config-file", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Active, Closed")
	assert.Contains(t, out, "is not null")
	assert.Contains(t, out, "number")
}

func TestInvalidFlags(t *testing.T) {
	_, err := execute(t, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")

	_, err = execute(t, "--snapshot", "--debounce", "soon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debounce")

	_, err = execute(t, "--config-file", filepath.Join(t.TempDir(), "missing.yaml"), "--snapshot")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "fxed "+settings.VersionInformation.BuildVersion))
}

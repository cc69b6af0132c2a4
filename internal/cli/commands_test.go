package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/toyz/wrapgen/internal/errors"
	"github.com/toyz/wrapgen/internal/logging"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func sourceArgs(root string, extra ...string) []string {
	return append([]string{
		"--source", filepath.Join(root, "src"),
		"--out", filepath.Join(root, "out"),
		"--go-package", "ccxt",
	}, extra...)
}

func TestCommands_GenerateCheckClean(t *testing.T) {
	root := writeSources(t, map[string]string{
		"base/Exchange.ts": baseTS,
		"binance.ts":       binanceTS,
	})
	out := filepath.Join(root, "out")

	_, err := runCommand(t, append([]string{"check", "--strict"}, sourceArgs(root)...)...)
	require.Error(t, err, "nothing generated yet")

	_, err = runCommand(t, append([]string{"check"}, sourceArgs(root)...)...)
	require.NoError(t, err, "findings are advisory without --strict")

	_, err = runCommand(t, append([]string{"generate", "--quiet"}, sourceArgs(root, "--backends", "go,java")...)...)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "go", "binance_wrapper.go"))
	assert.FileExists(t, filepath.Join(out, "java", "Binance.java"))
	assert.NoDirExists(t, filepath.Join(out, "csharp"))

	_, err = runCommand(t, append([]string{"check", "--strict"}, sourceArgs(root, "--backends", "go,java")...)...)
	require.NoError(t, err)

	output, err := runCommand(t, "clean", "--dry-run", out)
	require.NoError(t, err)
	assert.Contains(t, output, "  - "+filepath.Join(out, "go", "binance_wrapper.go")+"\n")
	assert.FileExists(t, filepath.Join(out, "go", "binance_wrapper.go"))

	_, err = runCommand(t, "clean", "--out", out)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(out, "go", "binance_wrapper.go"))
	assert.NoFileExists(t, filepath.Join(out, "java", "Binance.java"))

	output, err = runCommand(t, "clean", out)
	require.NoError(t, err)
	assert.Contains(t, output, "[INFO] No generated files under "+out)
}

func TestCommands_GenerateReportsFailures(t *testing.T) {
	root := writeSources(t, map[string]string{
		"base/Exchange.ts": baseTS,
		"binance.ts":       binanceTS,
		"kraken.ts":        "const kraken = 1;\n",
	})

	output, err := runCommand(t, append([]string{"generate", "--quiet"}, sourceArgs(root, "--backends", "go")...)...)
	require.Error(t, err)

	var reported reportedError
	assert.True(t, errors.As(err, &reported))
	assert.Contains(t, output, "1 file(s) failed:")
	assert.Contains(t, output, "[parse] kraken")
}

func TestCommands_InvalidConfiguration(t *testing.T) {
	root := t.TempDir()

	_, err := runCommand(t, append([]string{"generate"}, sourceArgs(root, "--backends", "rust")...)...)
	require.Error(t, err)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))

	_, err = runCommand(t, "generate", "stray-arg")
	require.Error(t, err)
}

func TestCommands_LogSectionStartsLogger(t *testing.T) {
	previous := logging.Logger
	t.Cleanup(func() {
		logging.Logger = previous
		logging.JSONOutput = false
	})

	root := writeSources(t, map[string]string{
		"base/Exchange.ts": baseTS,
		"binance.ts":       binanceTS,
	})
	configPath := filepath.Join(root, "wrapgen.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"source_dir: "+filepath.Join(root, "src")+"\n"+
			"output_dir: "+filepath.Join(root, "out")+"\n"+
			"backends: [go]\n"+
			"go:\n  package: ccxt\n"+
			"log:\n  json: true\n  verbose: true\n"), 0644))

	_, err := runCommand(t, "generate", "--quiet", "--config", configPath)
	require.NoError(t, err)

	assert.True(t, logging.JSONOutput)
	assert.True(t, logging.Logger.Desugar().Core().Enabled(zap.DebugLevel))
}

func TestCommands_LoggerStaysOffByDefault(t *testing.T) {
	previous := logging.Logger
	t.Cleanup(func() { logging.Logger = previous })

	root := writeSources(t, map[string]string{
		"base/Exchange.ts": baseTS,
		"binance.ts":       binanceTS,
	})
	_, err := runCommand(t, append([]string{"generate", "--quiet"}, sourceArgs(root, "--backends", "go")...)...)
	require.NoError(t, err)

	assert.False(t, logging.JSONOutput)
	assert.Same(t, previous, logging.Logger)
}

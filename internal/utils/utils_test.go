package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticSystem_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	diag := NewDiagnosticSystem(DiagnosticWarn)
	diag.SetOutput(&out, &errOut)

	diag.Info("hidden")
	diag.Warn("shown %d", 1)
	diag.Error("failed %s", "binance")

	assert.Equal(t, "[WARN] shown 1\n", out.String())
	assert.Equal(t, "[ERROR] failed binance\n", errOut.String())
}

func TestDiagnosticSystem_SummarySortsKeys(t *testing.T) {
	var out bytes.Buffer
	diag := NewDiagnosticSystem(DiagnosticInfo)
	diag.SetOutput(&out, &out)

	diag.Summary("Done", map[string]interface{}{"written": 3, "failed": 0, "methods": 42})

	assert.Equal(t, "\nDone\n   failed: 0\n   methods: 42\n   written: 3\n\n", out.String())
}

func TestDiagnosticSystem_HeadersWithoutColor(t *testing.T) {
	var out bytes.Buffer
	diag := NewDiagnosticSystem(DiagnosticInfo)
	diag.SetOutput(&out, &out)

	diag.ToolHeader("Generating wrappers")
	diag.PhaseHeader("Parsing")
	diag.PhaseItem("binance.ts")
	diag.PhaseProgress("Writing build/wrappers/go/binance_wrapper.go")
	diag.Indent()
	diag.List("fetchTicker")
	diag.Unindent()
	diag.Unindent()

	expected := "wrapgen: Generating wrappers\n" +
		"Parsing:\n" +
		"✓ binance.ts\n" +
		"✏ Writing build/wrappers/go/binance_wrapper.go\n" +
		"  - fetchTicker\n"
	assert.Equal(t, expected, out.String())
}

func TestDiagnosticSystem_Silent(t *testing.T) {
	var out bytes.Buffer
	diag := NewDiagnosticSystem(DiagnosticSilent)
	diag.SetOutput(&out, &out)

	diag.Error("nothing")
	diag.GenerationComplete()

	assert.Empty(t, out.String())
}

func TestFormatGoCodeString(t *testing.T) {
	formatted, err := FormatGoCodeString("wrapper.go", "package ccxt\nfunc  f( a int )int{return a}\n")
	require.NoError(t, err)
	assert.Contains(t, formatted, "func f(a int) int { return a }")

	source := "package ccxt\nfunc {"
	unchanged, err := FormatGoCodeString("broken.go", source)
	require.Error(t, err)
	assert.Equal(t, source, unchanged)
	assert.Contains(t, err.Error(), "invalid Go syntax")
}

func TestWalkFiles(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"binance.ts",
		"kraken.ts",
		"types.d.ts",
		"base/Exchange.ts",
		"node_modules/dep/index.ts",
		"static/skip.ts",
		"README.md",
	} {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("//"), 0644))
	}

	files, err := WalkFiles(root, FileWalkOptions{
		FileFilter:      TypeScriptSourceFilter(),
		DirectoryFilter: DefaultDirectoryFilter(),
	})
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"base/Exchange.ts", "binance.ts", "kraken.ts"}, rel)
}

func TestWalkFiles_MissingRoot(t *testing.T) {
	_, err := WalkFiles(filepath.Join(t.TempDir(), "missing"), FileWalkOptions{})
	assert.Error(t, err)

	files, err := WalkFiles(filepath.Join(t.TempDir(), "missing"), FileWalkOptions{SkipErrors: true})
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go", "binance_wrapper.go")

	changed, err := WriteIfChanged(path, []byte("package ccxt\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = WriteIfChanged(path, []byte("package ccxt\n"))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = WriteIfChanged(path, []byte("package ccxt\n\n// edited\n"))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestHasHeader(t *testing.T) {
	dir := t.TempDir()
	generated := filepath.Join(dir, "gen.cs")
	manual := filepath.Join(dir, "manual.cs")
	require.NoError(t, os.WriteFile(generated, []byte("// Code generated by wrapgen. DO NOT EDIT.\n\nnamespace ccxt;\n"), 0644))
	require.NoError(t, os.WriteFile(manual, []byte("namespace ccxt;\n// Code generated by wrapgen. DO NOT EDIT.\n"), 0644))

	ok, err := HasHeader(generated, "Code generated by wrapgen")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasHeader(manual, "Code generated by wrapgen")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGoModParser_ResolvePackageName(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module github.com/acme/ccxt-go/v4\n\ngo 1.21\n"), 0644))
	sub := filepath.Join(root, "wrappers")
	require.NoError(t, os.MkdirAll(sub, 0755))

	parser := NewGoModParser()

	name, err := parser.ParseModuleName(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
	assert.Equal(t, "github.com/acme/ccxt-go/v4", name)

	pkg, err := parser.ResolvePackageName(root, "ccxt")
	require.NoError(t, err)
	assert.Equal(t, "ccxtgo", pkg)

	pkg, err = parser.ResolvePackageName(sub, "ccxt")
	require.NoError(t, err)
	assert.Equal(t, "wrappers", pkg)
}

func TestGoModParser_ParseModuleNameErrors(t *testing.T) {
	parser := NewGoModParser()

	_, err := parser.ParseModuleName(filepath.Join(t.TempDir(), "package.json"))
	assert.Error(t, err)

	dir := t.TempDir()
	goMod := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(goMod, []byte("go 1.21\n"), 0644))
	_, err = parser.ParseModuleName(goMod)
	assert.ErrorContains(t, err, "no module declaration")
}

func TestSanitizePackageName(t *testing.T) {
	tests := map[string]string{
		"ccxt":     "ccxt",
		"CCXT-Go":  "ccxtgo",
		"3commas":  "fallback",
		"---":      "fallback",
		"ccxt_pro": "ccxt_pro",
		"go":       "fallback",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizePackageName(in, "fallback"), in)
	}
}

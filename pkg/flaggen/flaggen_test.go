package flaggen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/flaggen/internal/diag"
	"github.com/cmmoran/flaggen/internal/generator"
)

const appSpec = `package: app
flags:
  from:
    newOnboarding: false
    useFastAPI: true
  enumName: AppFeature
  caseStyle: .camelCase
editor:
  enumName: AppFeature
`

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, opts ...Option) *Result {
	t.Helper()
	f, err := New(opts...)
	require.NoError(t, err)
	res, err := f.Run(context.Background())
	require.NoError(t, err)
	return res
}

func TestRun_Spec(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "app.yaml", appSpec)

	res := run(t, WithSpecFiles(path))
	require.Empty(t, res.Diagnostics)
	require.NoError(t, res.Err())
	require.Len(t, res.Outputs, 1)

	out := res.Outputs[0]
	assert.Equal(t, filepath.Join(dir, "app"+OutputSuffix), out.Path)
	assert.Equal(t, path, out.Source)
	assert.Equal(t, []string{"AppFeature", "AppFeatureEditor"}, out.Types)

	src := string(out.Content)
	assert.Contains(t, src, "// Code generated by flaggen from app.yaml. DO NOT EDIT.")
	assert.Contains(t, src, "package app")
	assert.Contains(t, src, "type AppFeature string")
	assert.Contains(t, src, "func NewAppFeatureEditor(")
	assert.Contains(t, src, `"`+generator.DefaultRuntimeImport+`"`)
}

func TestRun_OutDirAndOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "specs/app.yaml", "flags:\n  from: {beta: true}\n")
	outDir := filepath.Join(dir, "gen")

	res := run(t,
		WithSpecFiles(path),
		WithOutDir(outDir),
		WithPackage("gen"),
		WithKeyPrefix("myapp."),
		WithRuntimeImport("example.com/rt/flagkit"),
	)
	require.Len(t, res.Outputs, 1)
	out := res.Outputs[0]
	assert.Equal(t, filepath.Join(outDir, "app"+OutputSuffix), out.Path)
	assert.Equal(t, []string{generator.DefaultTypeName}, out.Types)

	src := string(out.Content)
	assert.Contains(t, src, "package gen")
	assert.Contains(t, src, `return "myapp." + string(f)`)
	assert.Contains(t, src, `"example.com/rt/flagkit"`)
}

func TestRun_DiagnosticsDoNotStopGeneration(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "app.yaml", `package: app
flags:
  from:
    ok: true
    42: false
  enumName: A
  enumName: B
  caseStyle: .snake
`)

	res := run(t, WithSpecFiles(path))
	assert.Equal(t, 1, res.Diagnostics.Count(diag.InvalidFlagKeyNotString))
	assert.Equal(t, 1, res.Diagnostics.Count(diag.DuplicateArgument))
	assert.Equal(t, 1, res.Diagnostics.Count(diag.UnsupportedCaseStyle))

	err := res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDiagnostics))
	assert.Contains(t, err.Error(), "2 error(s)")

	require.Len(t, res.Outputs, 1)
	assert.Equal(t, []string{"B"}, res.Outputs[0].Types)
	assert.Contains(t, string(res.Outputs[0].Content), `ok B = "ok"`)

	for i := 1; i < len(res.Diagnostics); i++ {
		assert.LessOrEqual(t, res.Diagnostics[i-1].Pos.Line, res.Diagnostics[i].Pos.Line)
	}
}

func TestRun_WarningsOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "app.yaml", "package: app\nflags:\n  from: {a: true}\n  enumName: A\n  enumName: B\n")

	res := run(t, WithSpecFiles(path))
	assert.Len(t, res.Diagnostics, 1)
	assert.NoError(t, res.Err())
}

func TestRun_EmptySpecIsSilent(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "app.yaml", "package: app\nflags:\n  from: {}\n  enumName: AppFeature\n")

	res := run(t, WithSpecFiles(path))
	assert.Empty(t, res.Diagnostics)
	require.Len(t, res.Outputs, 1)
	assert.Nil(t, res.Outputs[0].Content)
	assert.Empty(t, res.Outputs[0].Types)
}

func TestRun_TypeCollision(t *testing.T) {
	dir := t.TempDir()
	a := writeSpec(t, dir, "a.yaml", "package: app\nflags:\n  from: {a: true}\n  enumName: Shared\n")
	b := writeSpec(t, dir, "b.yaml", "package: app\nflags:\n  from: {b: true}\n  enumName: Shared\neditor:\n  enumName: Shared\n")

	res := run(t, WithSpecFiles(b, a))
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.TypeCollision, d.Kind)
	assert.Equal(t, "Shared", d.Detail)
	assert.Equal(t, b, d.Pos.Filename)

	require.Len(t, res.Outputs, 2)
	assert.Equal(t, []string{"Shared"}, res.Outputs[0].Types)
	assert.Equal(t, []string{"SharedEditor"}, res.Outputs[1].Types)
}

func TestRun_CaseSharedAcrossTypes(t *testing.T) {
	dir := t.TempDir()
	a := writeSpec(t, dir, "a.yaml", "package: app\nflags:\n  from: {beta: true}\n  enumName: AppFeature\n")
	b := writeSpec(t, dir, "b.yaml", "package: app\nflags:\n  from: {beta: false, gamma: true}\n  enumName: OtherFeature\n")

	res := run(t, WithSpecFiles(b, a))
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.CaseCollision, d.Kind)
	assert.Equal(t, b, d.Pos.Filename)
	assert.Contains(t, d.Message(), "type AppFeature")
	require.Error(t, res.Err())

	require.Len(t, res.Outputs, 2)
	assert.Contains(t, string(res.Outputs[0].Content), `beta AppFeature = "beta"`)
	other := string(res.Outputs[1].Content)
	assert.Contains(t, other, `gamma OtherFeature = "gamma"`)
	assert.NotContains(t, other, "beta")
}

func TestRun_HelperNameTaken(t *testing.T) {
	dir := t.TempDir()
	a := writeSpec(t, dir, "a.yaml", "package: app\nflags:\n  from: {AllOtherFeatures: true}\n  enumName: AppFeature\n  caseStyle: .verbatim\n")
	b := writeSpec(t, dir, "b.yaml", "package: app\nflags:\n  from: {gamma: true}\n  enumName: OtherFeature\n")

	res := run(t, WithSpecFiles(a, b))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.TypeCollision, res.Diagnostics[0].Kind)
	assert.Equal(t, "AllOtherFeatures", res.Diagnostics[0].Detail)
	assert.Nil(t, res.Outputs[1].Content)
}

func TestRun_PackageDeclarationsAreAvoided(t *testing.T) {
	dir, err := filepath.Abs(filepath.Join("testdata", "taken"))
	require.NoError(t, err)

	res := run(t, WithInDir(dir), WithRuntimeImport("example.com/taken/flagkit"))
	assert.Equal(t, 2, res.Diagnostics.Count(diag.CaseCollision))
	assert.Len(t, res.Diagnostics, 2)
	require.Len(t, res.Outputs, 1)

	src := string(res.Outputs[0].Content)
	assert.Contains(t, src, `beta Feature = "beta"`)
	assert.Contains(t, src, `darkMode Feature = "darkMode"`)
	assert.NotContains(t, src, `legacy Feature`)
	assert.NotContains(t, src, `strings Feature`)
	assert.Contains(t, src, `flagkit_ "example.com/taken/flagkit"`)
}

func TestRun_OutputCollision(t *testing.T) {
	dir := t.TempDir()
	a := writeSpec(t, dir, "one/flags.yaml", appSpec)
	b := writeSpec(t, dir, "two/flags.yaml", appSpec)

	f, err := New(WithSpecFiles(a, b), WithOutDir(dir))
	require.NoError(t, err)
	_, err = f.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both generate")
}

func TestRun_Deterministic(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "app.yaml", appSpec)

	first := run(t, WithSpecFiles(path))
	second := run(t, WithSpecFiles(path))
	if diff := cmp.Diff(string(first.Outputs[0].Content), string(second.Outputs[0].Content)); diff != "" {
		t.Errorf("output changed between runs (-first +second):\n%s", diff)
	}
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "app.yaml", appSpec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, err := New(WithSpecFiles(path))
	require.NoError(t, err)
	_, err = f.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_GoSourceMatchesSpec(t *testing.T) {
	dir, err := filepath.Abs(filepath.Join("testdata", "app"))
	require.NoError(t, err)
	opts := []Option{WithRuntimeImport("example.com/app/flagkit")}

	fromGo := run(t, append(opts, WithInDir(dir))...)
	require.Empty(t, fromGo.Diagnostics)
	require.Len(t, fromGo.Outputs, 1)
	assert.Equal(t, filepath.Join(dir, "features"+OutputSuffix), fromGo.Outputs[0].Path)

	fromSpec := run(t, append(opts, WithSpecFiles(filepath.Join(dir, "features.yaml")))...)
	require.Empty(t, fromSpec.Diagnostics)
	require.Len(t, fromSpec.Outputs, 1)

	goBody := withoutHeader(fromGo.Outputs[0].Content)
	specBody := withoutHeader(fromSpec.Outputs[0].Content)
	if diff := cmp.Diff(string(goBody), string(specBody)); diff != "" {
		t.Errorf("Go and YAML sources disagree (-go +yaml):\n%s", diff)
	}
	assert.Contains(t, string(goBody), `showDebugMenu AppFeature = "showDebugMenu" // "Show Debug Menu"`)
}

func withoutHeader(src []byte) []byte {
	if i := bytes.IndexByte(src, '\n'); i >= 0 {
		return src[i+1:]
	}
	return src
}

func TestOptions_Normalize(t *testing.T) {
	o := &Options{}
	require.NoError(t, o.Normalize())
	assert.True(t, filepath.IsAbs(o.InDir))
	assert.Equal(t, []string{"./..."}, o.Patterns)
	assert.Equal(t, generator.DefaultKeyPrefix, o.KeyPrefix)
	assert.Equal(t, generator.DefaultRuntimeImport, o.RuntimeImport)
	assert.NotNil(t, o.Logger)

	bad := &Options{RuntimeImport: "not a path"}
	err := bad.Normalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime import")

	_, err = New(WithRuntimeImport("/abs/path"))
	assert.Error(t, err)
}

func TestManifestPath(t *testing.T) {
	dir, err := filepath.Abs(filepath.Join("testdata", "app"))
	require.NoError(t, err)

	f, err := New(WithInDir(filepath.Join(dir, "flagkit")))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestName), f.ManifestPath())

	tmp := t.TempDir()
	f, err = New(WithSpecFiles(filepath.Join(tmp, "app.yaml")))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, ManifestName), f.ManifestPath())

	f, err = New(WithManifest(filepath.Join(tmp, "m.yaml")))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "m.yaml"), f.ManifestPath())
}

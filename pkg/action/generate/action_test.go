package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/flaggen/pkg/flaggen"
	"github.com/cmmoran/flaggen/pkg/manifest"
)

const spec = `package: app
flags:
  from:
    beta: false
  enumName: AppFeature
`

func setup(t *testing.T, content string) (dir string, opts func() *flaggen.Options) {
	t.Helper()
	dir = t.TempDir()
	path := filepath.Join(dir, "features.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir, func() *flaggen.Options {
		o := flaggen.NewOptions()
		o.SpecFiles = []string{path}
		return o
	}
}

func TestGenerate_WritesFileAndManifest(t *testing.T) {
	dir, opts := setup(t, spec)

	res, err := Generate(context.Background(), opts())
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)

	out := filepath.Join(dir, "features"+flaggen.OutputSuffix)
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "type AppFeature string")

	m, err := manifest.Load(filepath.Join(dir, flaggen.ManifestName))
	require.NoError(t, err)
	require.Len(t, m.Files, 1)
	e := m.Files[0]
	assert.Equal(t, "features"+flaggen.OutputSuffix, e.File)
	assert.Equal(t, "features.yaml", e.Source)
	assert.Equal(t, []string{"AppFeature"}, e.Types)
	assert.Equal(t, manifest.Hash(content), e.SHA256)
	assert.Equal(t, flaggen.NewOptions().RuntimeImport, m.RuntimeImport)
	assert.Equal(t, flaggen.NewOptions().KeyPrefix, m.KeyPrefix)
}

func TestGenerate_UnchangedIsNotRewritten(t *testing.T) {
	dir, opts := setup(t, spec)
	_, err := Generate(context.Background(), opts())
	require.NoError(t, err)

	out := filepath.Join(dir, "features"+flaggen.OutputSuffix)
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(out, old, old))

	_, err = Generate(context.Background(), opts())
	require.NoError(t, err)
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old))
}

func TestGenerate_RemovesEmptiedOutput(t *testing.T) {
	dir, opts := setup(t, spec)
	_, err := Generate(context.Background(), opts())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "features.yaml"), []byte("package: app\nflags:\n  from: {}\n"), 0o644))
	_, err = Generate(context.Background(), opts())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "features"+flaggen.OutputSuffix))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	m, err := manifest.Load(filepath.Join(dir, flaggen.ManifestName))
	require.NoError(t, err)
	assert.Empty(t, m.Files)
}

func TestGenerate_LeavesUnmanagedFiles(t *testing.T) {
	dir, opts := setup(t, "package: app\nflags:\n  from: {}\n")
	out := filepath.Join(dir, "features"+flaggen.OutputSuffix)
	require.NoError(t, os.WriteFile(out, []byte("package app\n"), 0o644))

	_, err := Generate(context.Background(), opts())
	require.NoError(t, err)
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestGenerate_DiagnosticsStillWrite(t *testing.T) {
	dir, opts := setup(t, "package: app\nflags:\n  from:\n    ok: true\n    7: false\n")

	res, err := Generate(context.Background(), opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, flaggen.ErrDiagnostics))
	require.NotNil(t, res)
	assert.Len(t, res.Diagnostics.Errors(), 1)

	_, err = os.Stat(filepath.Join(dir, "features"+flaggen.OutputSuffix))
	assert.NoError(t, err)
}

func TestGenerate_ExplicitManifest(t *testing.T) {
	_, opts := setup(t, spec)
	elsewhere := filepath.Join(t.TempDir(), "state", "flags.manifest.yaml")

	o := opts()
	o.Manifest = elsewhere
	_, err := Generate(context.Background(), o)
	require.NoError(t, err)

	m, err := manifest.Load(elsewhere)
	require.NoError(t, err)
	require.Len(t, m.Files, 1)
	assert.True(t, filepath.IsAbs(filepath.FromSlash(m.Files[0].File)))
}

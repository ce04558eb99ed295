package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/flaggen/pkg/action/generate"
	"github.com/cmmoran/flaggen/pkg/flaggen"
	"github.com/cmmoran/flaggen/pkg/manifest"
)

const spec = `package: app
flags:
  from:
    beta: false
    gamma: true
  enumName: AppFeature
`

type fixture struct {
	dir  string
	spec string
	out  string
}

func (f fixture) opts() *flaggen.Options {
	o := flaggen.NewOptions()
	o.SpecFiles = []string{f.spec}
	return o
}

func newFixture(t *testing.T, generated bool) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:  dir,
		spec: filepath.Join(dir, "features.yaml"),
		out:  filepath.Join(dir, "features"+flaggen.OutputSuffix),
	}
	require.NoError(t, os.WriteFile(f.spec, []byte(spec), 0o644))
	if generated {
		_, err := generate.Generate(context.Background(), f.opts())
		require.NoError(t, err)
	}
	return f
}

func TestVerify_UpToDate(t *testing.T) {
	f := newFixture(t, true)
	stale, res, err := Verify(context.Background(), f.opts())
	require.NoError(t, err)
	assert.Empty(t, stale)
	assert.Len(t, res.Outputs, 1)
}

func TestVerify_Missing(t *testing.T) {
	f := newFixture(t, false)
	stale, _, err := Verify(context.Background(), f.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStale))
	require.Len(t, stale, 1)
	assert.Equal(t, Stale{Path: f.out, Reason: ReasonMissing}, stale[0])

	_, err = os.Stat(f.out)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestVerify_Outdated(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, os.WriteFile(f.out, []byte("package app\n"), 0o644))

	stale, _, err := Verify(context.Background(), f.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStale))
	require.Len(t, stale, 1)
	assert.Equal(t, ReasonOutdated, stale[0].Reason)
	assert.Contains(t, stale[0].Diff, "type AppFeature string")
}

func TestVerify_Obsolete(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, os.WriteFile(f.spec, []byte("package: app\nflags:\n  from: {}\n"), 0o644))

	stale, _, err := Verify(context.Background(), f.opts())
	require.Error(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, ReasonObsolete, stale[0].Reason)
}

func TestVerify_ManifestOutOfDate(t *testing.T) {
	f := newFixture(t, true)
	path := filepath.Join(f.dir, flaggen.ManifestName)
	m, err := manifest.Load(path)
	require.NoError(t, err)
	m.Files[0].SHA256 = manifest.Hash([]byte("stale"))
	require.NoError(t, m.Save(path))

	stale, _, err := Verify(context.Background(), f.opts())
	require.Error(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, ReasonManifest, stale[0].Reason)
}

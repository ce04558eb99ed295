// Package verify checks that generated files on disk match what a fresh run
// would produce.
package verify

import (
	"bytes"
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/flaggen/pkg/flaggen"
	"github.com/cmmoran/flaggen/pkg/manifest"
)

// ErrStale is returned when any generated file is out of date.
var ErrStale = errors.New("generated files are stale")

// Reasons a file is reported stale.
const (
	ReasonMissing  = "missing"
	ReasonOutdated = "outdated"
	ReasonObsolete = "obsolete"
	ReasonManifest = "not recorded in manifest"
)

// Stale describes one file that needs regenerating.
type Stale struct {
	Path   string
	Reason string
	// Diff is set for ReasonOutdated (-disk +generated).
	Diff string
}

// Verify regenerates in memory and compares the result with the files on
// disk and the manifest. Nothing is written. The error wraps ErrStale when
// anything differs and flaggen.ErrDiagnostics when declarations have errors.
func Verify(ctx context.Context, opts *flaggen.Options) ([]Stale, *flaggen.Result, error) {
	fg, err := flaggen.NewWithOpts(opts)
	if err != nil {
		return nil, nil, err
	}
	res, err := fg.Run(ctx)
	if err != nil {
		return nil, nil, err
	}

	manifestPath := fg.ManifestPath()
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, nil, err
	}

	var stale []Stale
	for _, out := range res.Outputs {
		s, err := check(m, manifestPath, out)
		if err != nil {
			return nil, nil, err
		}
		if s != nil {
			fg.Opts.Logger.Debugw("stale", "file", s.Path, "reason", s.Reason)
			stale = append(stale, *s)
		}
	}

	if len(stale) > 0 {
		return stale, res, errors.CombineErrors(
			errors.Wrapf(ErrStale, "%d file(s) out of date", len(stale)),
			res.Err(),
		)
	}
	return nil, res, res.Err()
}

func check(m *manifest.Manifest, manifestPath string, out *flaggen.Output) (*Stale, error) {
	rel := manifest.Rel(manifestPath, out.Path)
	disk, err := os.ReadFile(out.Path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(err, "read %s", out.Path)
	}

	switch {
	case out.Content == nil:
		if exists && m.Find(rel) != nil {
			return &Stale{Path: out.Path, Reason: ReasonObsolete}, nil
		}
	case !exists:
		return &Stale{Path: out.Path, Reason: ReasonMissing}, nil
	case !bytes.Equal(disk, out.Content):
		return &Stale{
			Path:   out.Path,
			Reason: ReasonOutdated,
			Diff:   cmp.Diff(string(disk), string(out.Content)),
		}, nil
	default:
		if e := m.Find(rel); e == nil || e.SHA256 != manifest.Hash(out.Content) {
			return &Stale{Path: out.Path, Reason: ReasonManifest}, nil
		}
	}
	return nil, nil
}

// Package generate writes the outputs of a flaggen run and records them in
// the manifest.
package generate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/flaggen/pkg/flaggen"
	"github.com/cmmoran/flaggen/pkg/manifest"
)

// Generate runs flaggen with opts, writes every output and updates the
// manifest. Files whose content is unchanged are not rewritten. An output
// with nothing left to declare removes the file it generated before.
//
// The returned error wraps flaggen.ErrDiagnostics when declarations have
// errors; files are still written in that case.
func Generate(ctx context.Context, opts *flaggen.Options) (*flaggen.Result, error) {
	fg, err := flaggen.NewWithOpts(opts)
	if err != nil {
		return nil, err
	}
	res, err := fg.Run(ctx)
	if err != nil {
		return nil, err
	}

	manifestPath := fg.ManifestPath()
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	log := fg.Opts.Logger

	for _, out := range res.Outputs {
		rel := manifest.Rel(manifestPath, out.Path)
		if out.Content == nil {
			if m.RemoveFile(rel) {
				if err := os.Remove(out.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
					return nil, errors.Wrapf(err, "remove %s", out.Path)
				}
				log.Infow("removed", "file", out.Path)
			}
			continue
		}

		written, err := write(out.Path, out.Content)
		if err != nil {
			return nil, err
		}
		if written {
			log.Infow("wrote", "file", out.Path, "types", out.Types)
		} else {
			log.Debugw("unchanged", "file", out.Path)
		}
		m.AddFile(manifest.Entry{
			File:   rel,
			Source: manifest.Rel(manifestPath, out.Source),
			Types:  out.Types,
			SHA256: manifest.Hash(out.Content),
		})
	}

	m.RuntimeImport = fg.Opts.RuntimeImport
	m.KeyPrefix = fg.Opts.KeyPrefix
	if err := m.Save(manifestPath); err != nil {
		return nil, err
	}

	return res, res.Err()
}

// write stores content at path and reports whether the file changed.
func write(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrapf(err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, errors.Wrapf(err, "write %s", path)
	}
	return true, nil
}

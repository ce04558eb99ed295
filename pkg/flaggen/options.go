package flaggen

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/mod/module"

	"github.com/cmmoran/flaggen/internal/generator"
)

// Options control scanning and generation.
//
// InDir         – directory Go packages are loaded from.
// Patterns      – go list patterns resolved against InDir (default ./...).
// SpecFiles     – YAML specs to read instead of scanning Go packages.
// OutDir        – output directory for code generated from specs (default: next to the spec).
// Package       – package clause for code generated from specs that carry none.
// KeyPrefix     – prefix of every persistence key (default "featureflag.").
// RuntimeImport – import path of the flagkit runtime package.
// Manifest      – manifest location (default: flaggen.manifest.yaml in the module root).
type Options struct {
	InDir         string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	Patterns      []string `json:"patterns,omitempty" yaml:"patterns,omitempty" toml:"patterns,omitempty" mapstructure:"patterns,omitempty"`
	SpecFiles     []string `json:"spec_files,omitempty" yaml:"spec_files,omitempty" toml:"spec_files,omitempty" mapstructure:"spec_files,omitempty"`
	OutDir        string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	Package       string   `json:"package,omitempty" yaml:"package,omitempty" toml:"package,omitempty" mapstructure:"package,omitempty"`
	KeyPrefix     string   `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty" toml:"key_prefix,omitempty" mapstructure:"key_prefix,omitempty"`
	RuntimeImport string   `json:"runtime_import,omitempty" yaml:"runtime_import,omitempty" toml:"runtime_import,omitempty" mapstructure:"runtime_import,omitempty"`
	Manifest      string   `json:"manifest,omitempty" yaml:"manifest,omitempty" toml:"manifest,omitempty" mapstructure:"manifest,omitempty"`

	Logger *zap.SugaredLogger `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

// ManifestName is the default manifest file name.
const ManifestName = "flaggen.manifest.yaml"

func NewOptions() *Options {
	return &Options{
		InDir:         ".",
		Patterns:      []string{"./..."},
		KeyPrefix:     generator.DefaultKeyPrefix,
		RuntimeImport: generator.DefaultRuntimeImport,
	}
}

// Normalize fills defaults, makes paths absolute and validates the runtime
// import path.
func (o *Options) Normalize() error {
	if o.InDir == "" {
		o.InDir = "."
	}
	if len(o.Patterns) == 0 {
		o.Patterns = []string{"./..."}
	}
	if o.KeyPrefix == "" {
		o.KeyPrefix = generator.DefaultKeyPrefix
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = generator.DefaultRuntimeImport
	}
	if err := module.CheckImportPath(o.RuntimeImport); err != nil {
		return errors.WithHint(errors.Wrap(err, "runtime import"), "--runtime-import must be a valid Go import path")
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}

	var err error
	if o.InDir, err = absPath(o.InDir); err != nil {
		return err
	}
	if o.OutDir != "" {
		if o.OutDir, err = absPath(o.OutDir); err != nil {
			return err
		}
	}
	for i, f := range o.SpecFiles {
		if o.SpecFiles[i], err = absPath(strings.TrimSpace(f)); err != nil {
			return err
		}
	}
	if o.Manifest != "" {
		if o.Manifest, err = absPath(o.Manifest); err != nil {
			return err
		}
	}
	return nil
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", p)
	}
	return abs, nil
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option              { return func(o *Options) { o.InDir = d } }
func WithOutDir(d string) Option             { return func(o *Options) { o.OutDir = d } }
func WithPackage(p string) Option            { return func(o *Options) { o.Package = p } }
func WithKeyPrefix(p string) Option          { return func(o *Options) { o.KeyPrefix = p } }
func WithRuntimeImport(p string) Option      { return func(o *Options) { o.RuntimeImport = p } }
func WithManifest(p string) Option           { return func(o *Options) { o.Manifest = p } }
func WithLogger(l *zap.SugaredLogger) Option { return func(o *Options) { o.Logger = l } }
func WithPatterns(patterns ...string) Option {
	return func(o *Options) { o.Patterns = append(o.Patterns[:0:0], patterns...) }
}
func WithSpecFiles(files ...string) Option {
	return func(o *Options) {
		for _, f := range files {
			o.SpecFiles = append(o.SpecFiles, strings.TrimSpace(f))
		}
	}
}

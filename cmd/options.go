package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/flaggen/pkg/flaggen"
)

// configKey holds flaggen.Options in config files.
const configKey = "flaggen"

// addOptionFlags registers the generation flags shared by every command.
func addOptionFlags(c *cobra.Command) *flaggen.Options {
	options := flaggen.NewOptions()
	fs := c.Flags()
	fs.StringVarP(&options.InDir, "input-directory", "i", options.InDir, "directory Go packages are loaded from")
	fs.StringSliceVar(&options.Patterns, "patterns", options.Patterns, "package patterns resolved against the input directory")
	fs.StringSliceVarP(&options.SpecFiles, "spec", "s", nil, "YAML spec file(s) to read instead of scanning Go packages")
	fs.StringVarP(&options.OutDir, "output-directory", "o", "", "directory for code generated from specs (default: next to each spec)")
	fs.StringVarP(&options.Package, "package", "p", "", "package name for specs that declare none")
	fs.StringVar(&options.KeyPrefix, "key-prefix", options.KeyPrefix, "prefix of every persistence key")
	fs.StringVar(&options.RuntimeImport, "runtime-import", options.RuntimeImport, "import path of the flagkit runtime package")
	fs.StringVarP(&options.Manifest, "manifest", "m", "", "manifest path (default: "+flaggen.ManifestName+" in the module root)")
	return options
}

// resolveOptions layers explicitly set flags over the config file section
// over the defaults.
func resolveOptions(c *cobra.Command, flags *flaggen.Options) (*flaggen.Options, error) {
	opts := flaggen.NewOptions()
	if viper.IsSet(configKey) {
		if err := viper.UnmarshalKey(configKey, opts); err != nil {
			return nil, errors.Wrapf(err, "decode %q config section", configKey)
		}
	}

	set := c.Flags().Changed
	if set("input-directory") {
		opts.InDir = flags.InDir
	}
	if set("patterns") {
		opts.Patterns = flags.Patterns
	}
	if set("spec") {
		opts.SpecFiles = flags.SpecFiles
	}
	if set("output-directory") {
		opts.OutDir = flags.OutDir
	}
	if set("package") {
		opts.Package = flags.Package
	}
	if set("key-prefix") {
		opts.KeyPrefix = flags.KeyPrefix
	}
	if set("runtime-import") {
		opts.RuntimeImport = flags.RuntimeImport
	}
	if set("manifest") {
		opts.Manifest = flags.Manifest
	}
	opts.Logger = logger

	return opts, nil
}

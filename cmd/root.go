package cmd

import (
	"bytes"
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFiles    []string
	level, version string

	logger = zap.NewNop().Sugar()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "flaggen",
	Short:        "generate typed feature flags",
	Long:         "Generate typed feature flag enums and editor scaffolds from flagkit declarations",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// SetVersion records the build version reported by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
}

// newLogger builds a stderr logger; "trace" maps to debug.
func newLogger(lvl string) (*zap.SugaredLogger, error) {
	if strings.EqualFold(lvl, "trace") {
		lvl = "debug"
	}
	zl, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zl)
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}

	l, err := config.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	l, err := newLogger(level)
	if err != nil {
		panic("invalid log level: " + level)
	}
	logger = l

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("flaggen")
	}

	viper.SetEnvPrefix("FLAGGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Debugw("using config file(s)", "config", viper.ConfigFileUsed())
	} else {
		logger.Debugw("unable to use config file(s)", "error", err, "config", viper.ConfigFileUsed())
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					logger.Warnw("failed to merge config file", "error", err, "file", file)
				} else {
					logger.Debugw("merged config file", "file", file)
				}
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}

	// common.log.level applies only when --level was left at its default.
	if llstr := viper.GetString("common.log.level"); llstr != "" && !rootCmd.PersistentFlags().Changed("level") {
		if l, err := newLogger(llstr); err == nil {
			logger = l
		} else {
			logger.Warnw("invalid common.log.level", "level", llstr, "error", err)
		}
	}
}

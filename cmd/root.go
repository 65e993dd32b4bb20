package cmd

import (
	"fmt"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/restquery/internal/config"
)

// EnvPrefix prefixes the environment variables bound to flags,
// e.g. RESTQUERY_SERVER_HTTP_PORT for --server-http-port.
const EnvPrefix = "RESTQUERY"

func NewRootCommand() *cobra.Command {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	root := &cobra.Command{
		Use:           "restquery",
		Short:         "Query declared entities over REST",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewRunCommand(cfg),
		NewCompileCommand(cfg),
	)
	return root
}

// bindEnvironment fills every flag not set on the command line from its
// RESTQUERY_ environment variable.
func bindEnvironment(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cobraflags.PresetRequiredFlags(EnvPrefix, make(map[*pflag.Flag]bool), cmd)
}

func registerLogFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn or error")
	flags.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format: console or json")
}

func registerSchemaFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.StringVar(&cfg.Schemas.Path, "schemas-path", cfg.Schemas.Path, "YAML file or directory with the entity definitions")
}

// setupLogger installs the global zap logger.
func setupLogger(cfg *config.Configuration) (func(), error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.Log.Format == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		undo()
	}, nil
}

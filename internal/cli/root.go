// Package cli implements the folio command.
package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-folio/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "FOLIO"

// Viper keys. Each maps to FOLIO_<KEY> in the environment.
const (
	keyDBPath          = "db_path"
	keyLogLevel        = "log_level"
	keyLogJSON         = "log_json"
	keyEvalTimeout     = "eval_timeout"
	keyEvalMaxStack    = "eval_max_stack"
	keyCatalogPath     = "catalog_path"
	keyActivityEnabled = "activity_enabled"
	keyActivityChannel = "activity_channel"
	keyActivityVerbs   = "activity_verbs"
)

type rootOptions struct {
	ConfigFile string
	LogLevel   string
	DBPath     string
	Catalog    string
}

// Execute runs the command and exits with a code derived from the error.
func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg(errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := rootOptions{}
	cmd := &cobra.Command{
		Use:           "folio",
		Short:         "Compose, render and store portfolio documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(opts.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString(keyLogLevel), viper.GetBool(keyLogJSON))
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&opts.DBPath, "db", "", "SQLite database path")
	flags.StringVar(&opts.Catalog, "catalog", "", "YAML variant catalogue added to the built-in one")
	_ = viper.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(keyDBPath, flags.Lookup("db"))
	_ = viper.BindPFlag(keyCatalogPath, flags.Lookup("catalog"))

	cmd.AddCommand(newVariantsCommand())
	cmd.AddCommand(newSchemaCommand())
	cmd.AddCommand(newRenderCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newScreenCommand())
	cmd.AddCommand(newSaveCommand())
	cmd.AddCommand(newLoadCommand())
	cmd.AddCommand(newDeleteCommand())
	cmd.AddCommand(newListCommand())
	return cmd
}

// initConfig seeds viper with the environment defaults, then layers the
// config file and FOLIO_* variables over them. Flags bound to viper win.
func initConfig(configFile string) error {
	base, err := config.Load()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid environment configuration").
			WithCause(err)
	}
	viper.SetDefault(keyDBPath, base.DBPath)
	viper.SetDefault(keyLogLevel, base.LogLevel)
	viper.SetDefault(keyLogJSON, base.LogJSON)
	viper.SetDefault(keyEvalTimeout, base.EvalTimeout)
	viper.SetDefault(keyEvalMaxStack, base.EvalMaxCallStack)
	viper.SetDefault(keyCatalogPath, base.CatalogPath)
	viper.SetDefault(keyActivityEnabled, base.Activity.Enabled)
	viper.SetDefault(keyActivityChannel, base.Activity.Channel)
	viper.SetDefault(keyActivityVerbs, base.Activity.Verbs)

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("folio")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/folio")
	// a missing default config file is fine
	_ = viper.ReadInConfig()
	return nil
}

func setupLogging(level string, jsonOutput bool) {
	if !jsonOutput {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func exitCodeForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return 2
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeAlreadyExists, errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound:
		return 5
	case errbuilder.CodeInternal:
		return 6
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

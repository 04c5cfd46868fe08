package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/dynamic"
	"github.com/goliatone/go-folio/internal/config"
	"github.com/goliatone/go-folio/pkg/activity"
	"github.com/goliatone/go-folio/pkg/state"
	"github.com/goliatone/go-folio/pkg/state/sqlite"
	"github.com/goliatone/go-folio/registry"
)

// app holds the collaborators commands share. It is built per invocation
// from the resolved settings.
type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	resolver *folio.Resolver
	runtime  *dynamic.Runtime
	emitter  *activity.Emitter
}

func settings() (config.Config, error) {
	cfg := config.Config{
		DBPath:           viper.GetString(keyDBPath),
		LogLevel:         viper.GetString(keyLogLevel),
		LogJSON:          viper.GetBool(keyLogJSON),
		EvalTimeout:      viper.GetDuration(keyEvalTimeout),
		EvalMaxCallStack: viper.GetInt(keyEvalMaxStack),
		CatalogPath:      viper.GetString(keyCatalogPath),
		Activity: config.Activity{
			Enabled: viper.GetBool(keyActivityEnabled),
			Channel: viper.GetString(keyActivityChannel),
			Verbs:   viper.GetStringSlice(keyActivityVerbs),
		},
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, classify("invalid configuration", err)
	}
	return cfg, nil
}

func newApp() (*app, error) {
	cfg, err := settings()
	if err != nil {
		return nil, err
	}
	logger := log.Logger.With().Str("component", "folio").Logger()

	reg := registry.Builtin()
	if path := strings.TrimSpace(cfg.CatalogPath); path != "" {
		reg = reg.Clone()
		n, err := reg.LoadCatalogueFile(path)
		if err != nil {
			return nil, classify("failed to load catalogue", err)
		}
		logger.Debug().Str("path", path).Int("variants", n).Msg("catalogue loaded")
	}

	runtime := dynamic.New(
		dynamic.WithTimeout(cfg.EvalTimeout),
		dynamic.WithMaxCallStackSize(cfg.EvalMaxCallStack),
		dynamic.WithLogger(folio.ZerologDynamicLogger(logger)),
	)

	hook := activity.HookFunc(func(_ context.Context, event activity.Event) error {
		logger.Info().
			Str("verb", event.Verb).
			Str("object", event.ObjectType+"/"+event.ObjectID).
			Str("actor", event.ActorID).
			Str("channel", event.Channel).
			Msg("activity")
		return nil
	})
	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.Config{
		Enabled: cfg.Activity.Enabled,
		Channel: cfg.Activity.Channel,
		Verbs:   cfg.Activity.Verbs,
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		resolver: folio.NewResolver(reg),
		runtime:  runtime,
		emitter:  emitter,
	}, nil
}

func (a *app) renderer(opts ...folio.Option) *folio.Renderer {
	base := []folio.Option{
		folio.WithResolver(a.resolver),
		folio.WithDynamicRuntime(a.runtime),
		folio.WithRenderLogger(folio.ZerologRenderLogger(a.logger)),
	}
	return folio.NewRenderer(append(base, opts...)...)
}

// service opens the SQLite store. Callers close it with the returned func.
func (a *app) service(ctx context.Context) (*state.Service, func() error, error) {
	store, err := sqlite.Open(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, nil, classify("failed to open store", err)
	}
	svc := state.NewService(store,
		state.WithEmitter(a.emitter),
		state.WithLogger(a.logger),
	)
	return svc, store.Close, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, classify("failed to read stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalidArgumentCause(fmt.Sprintf("failed to read %s", path), err)
	}
	return data, nil
}

func readPortfolio(cmd *cobra.Command, path string) (folio.Portfolio, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return folio.Portfolio{}, err
	}
	p, err := folio.DecodePortfolio(data)
	if err != nil {
		return folio.Portfolio{}, invalidArgumentCause("failed to decode portfolio", err)
	}
	return p, nil
}

// output opens path for writing, or returns the command's stdout.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, invalidArgumentCause(fmt.Sprintf("failed to create %s", path), err)
	}
	return f, f.Close, nil
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return classify("failed to encode output", err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/japaniel/wordbook/pkg/config"
	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/ingest"
	"github.com/japaniel/wordbook/pkg/logging"
	"github.com/japaniel/wordbook/pkg/observe"
	"github.com/japaniel/wordbook/pkg/translate"
	"github.com/japaniel/wordbook/pkg/wordbook"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultConfigPath = "wordbook.yaml"

// app carries what every subcommand needs after flags are parsed.
type app struct {
	configPath string
	dbPath     string
	debug      bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "wordbook",
		Short:         "Vocabulary book for e-book readers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.Flags())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", defaultConfigPath, "path to the YAML config file")
	flags.StringVar(&a.dbPath, "db", "", "path to the SQLite database (overrides the config)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newExistsCmd(a),
		newSentenceCmd(a),
		newMatchCmd(a),
		newTranslateCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newSpellCmd(a),
		newEvaluateCmd(a),
	)
	return cmd
}

// load reads the config. The default file may be absent; a path given with
// --config must exist.
func (a *app) load(flags *pflag.FlagSet) error {
	optional := !flags.Changed("config")
	cfg, err := config.Load(a.configPath, optional)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	a.cfg = cfg
	logging.Setup(string(cfg.Log.Level), string(cfg.Log.Format), a.debug, os.Stderr)
	log.Debug().Str("config", a.configPath).Str("db", cfg.Database.Path).Msg("configuration loaded")
	return nil
}

// env is an opened store with the service around it.
type env struct {
	store  *db.Store
	client *translate.Client
	svc    *wordbook.Service
	pool   *ingest.WorkerPool
}

func (e *env) Close() error {
	if e.pool != nil {
		e.pool.Close()
	}
	return e.store.Close()
}

type openOptions struct {
	metrics *observe.Metrics
	workers bool
}

func (a *app) open(ctx context.Context, o openOptions) (*env, error) {
	store, err := db.Open(db.Config{Path: a.cfg.Database.Path, MaxConns: a.cfg.Database.MaxConns})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", a.cfg.Database.Path, err)
	}
	e := &env{store: store}

	opts := wordbook.Options{
		SourceLang: a.cfg.Translate.From,
		TargetLang: a.cfg.Translate.To,
		Metrics:    o.metrics,
	}
	if a.cfg.TranslationConfigured() {
		var clientOpts []translate.Option
		if o.metrics != nil {
			clientOpts = append(clientOpts, translate.WithMetrics(o.metrics))
		}
		e.client = translate.New(a.cfg.TranslateClientConfig(), clientOpts...)
		opts.Translator = e.client
	} else {
		log.Debug().Msg("translation credentials not set, translation disabled")
	}
	if o.workers {
		e.pool = ingest.NewWorkerPool(a.cfg.Workers.Count, a.cfg.Workers.Queue)
		e.pool.OnError = func(err error) {
			log.Warn().Err(err).Msg("background job failed")
		}
		// Close drains the queue, so accepted background adds finish on shutdown.
		e.pool.Start(context.WithoutCancel(ctx))
		opts.Dispatcher = ingest.NewDispatcher(e.pool)
	}
	e.svc = wordbook.New(store, opts)
	return e, nil
}

// withEnv opens the store for the duration of fn.
func (a *app) withEnv(ctx context.Context, fn func(*env) error) (err error) {
	e, err := a.open(ctx, openOptions{})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, e.Close())
	}()
	return fn(e)
}

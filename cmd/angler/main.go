package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/angler/internal/config"
	"github.com/udisondev/angler/internal/data"
	"github.com/udisondev/angler/internal/db"
	"github.com/udisondev/angler/internal/game/fishing"
)

const ConfigPath = "config/angler.yaml"

const usage = `usage: angler <command> [flags]

commands:
  sim    resolve one fight headless with the autopilot
  play   fight one fish in the terminal
  serve  run autopilot fights and stream them to websocket spectators
`

var errUsage = errors.New("bad usage")

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("ANGLER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadAngler(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logOut := os.Stdout
	if args[0] == "play" {
		// The terminal belongs to the HUD.
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	env, err := newEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.close()

	switch args[0] {
	case "sim":
		return runSim(ctx, env, args[1:])
	case "play":
		return runPlay(ctx, env, args[1:])
	case "serve":
		return runServe(ctx, env, args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// env is what every command shares.
type env struct {
	cfg        config.Angler
	catalog    *data.Catalog
	tuning     fishing.Tuning
	dispatcher *fishing.Dispatcher
	database   *db.DB
}

func newEnv(ctx context.Context, cfg config.Angler) (*env, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		return nil, fmt.Errorf("loading tuning: %w", err)
	}

	e := &env{
		cfg:        cfg,
		catalog:    catalog,
		tuning:     tuning,
		dispatcher: &fishing.Dispatcher{},
	}
	e.dispatcher.AddCatchListener(fishing.CatchListenerFunc(func(c fishing.CatchRecord) {
		slog.Info("fish landed",
			"angler", c.AnglerID,
			"species", c.Species,
			"weight_kg", c.WeightKg,
			"location", c.Location,
			"duration", c.Duration)
	}))

	if !cfg.Persist {
		return e, nil
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	e.database = database
	e.dispatcher.AddOutcomeListener(db.NewKeepnet(database.Catches(), database.Attempts()))
	return e, nil
}

func (e *env) close() {
	if e.database != nil {
		e.database.Close()
	}
}

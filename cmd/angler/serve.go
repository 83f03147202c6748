package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/angler/internal/game/fishing"
	"github.com/udisondev/angler/internal/spectator"
)

func runServe(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var ff fightFlags
	ff.register(fs, e)
	fights := fs.Int("fights", 0, "number of fights to run, 0 runs until interrupted")
	pause := fs.Duration("pause", 3*time.Second, "pause between fights")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	hub := spectator.NewHub(0)
	srv := &http.Server{
		Addr:              e.cfg.Spectator.Addr(),
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	gctx, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error {
		slog.Info("spectator feed listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("spectator server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		defer stop()
		return botLoop(gctx, e, ff, hub, *fights, *pause)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// botLoop runs autopilot fights back to back until ctx is done or n fights
// have finished.
func botLoop(ctx context.Context, e *env, ff fightFlags, listener fishing.SessionListener, n int, pause time.Duration) error {
	rng := fishing.NewRand(uint64(time.Now().UnixNano()))
	names := e.catalog.SpeciesNames()
	if len(names) == 0 {
		return errors.New("catalog has no species")
	}

	for i := 0; n == 0 || i < n; i++ {
		bite := ff
		if bite.species == "" {
			bite.species = names[int(rng.Float64()*float64(len(names)))%len(names)]
			bite.weightKg = 0
			bite.hookQuality = 0.3 + 0.7*rng.Float64()
		}
		if ff.seed != 0 {
			bite.seed = ff.seed + uint64(i)
		}

		fight, err := bite.newFight(e)
		if err != nil {
			return err
		}

		session := fishing.NewSession(bite.anglerID, fight, e.cfg.Fight.TickRate, listener)
		session.SetController(fishing.NewAutopilot())
		session.Start()

		select {
		case <-session.Done():
		case <-ctx.Done():
			session.Stop()
		}
		outcome := session.Outcome()
		e.dispatcher.OnOutcome(outcome)
		printOutcome(outcome, fight.Seed())

		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/angler/internal/game/fishing"
	"github.com/udisondev/angler/internal/hud"
)

func runPlay(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	var ff fightFlags
	ff.register(fs, e)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if ff.species == "" {
		return fmt.Errorf("%w: -species is required", errUsage)
	}

	fight, err := ff.newFight(e)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	h, err := hud.New(screen, fight.Fish(), fight.Params())
	if err != nil {
		return err
	}

	session := fishing.NewSession(ff.anglerID, fight, e.cfg.Fight.TickRate, h)
	session.Start()
	h.Draw()
	h.Run(ctx, session, session.Done())

	<-session.Done()
	h.Close()

	outcome := session.Outcome()
	e.dispatcher.OnOutcome(outcome)
	printOutcome(outcome, fight.Seed())
	return nil
}

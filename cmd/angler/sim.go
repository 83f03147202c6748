package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/udisondev/angler/internal/game/fishing"
)

func runSim(_ context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
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
	if e.cfg.Fight.HardCap <= 0 {
		return fmt.Errorf("sim needs fight.hard_cap > 0 to guarantee it ends")
	}

	session := fishing.NewSession(ff.anglerID, fight, e.cfg.Fight.TickRate, nil)
	session.SetController(fishing.NewAutopilot())

	outcome := session.Run()
	e.dispatcher.OnOutcome(outcome)
	printOutcome(outcome, fight.Seed())
	return nil
}

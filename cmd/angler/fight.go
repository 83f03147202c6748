package main

import (
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/angler/internal/data"
	"github.com/udisondev/angler/internal/game/fishing"
)

// fightFlags describe one bite.
type fightFlags struct {
	anglerID    int64
	species     string
	weightKg    float64
	location    string
	bait        string
	rigDepthM   float64
	hookQuality float64
	difficulty  float64
	seed        uint64
	rod         string
	line        string
	reel        string
	hook        string
}

func (f *fightFlags) register(fs *flag.FlagSet, e *env) {
	fs.Int64Var(&f.anglerID, "angler", 1, "angler id")
	fs.StringVar(&f.species, "species", "", "species on the hook")
	fs.Float64Var(&f.weightKg, "weight", 0, "fish weight in kg, 0 draws one from the species range")
	fs.StringVar(&f.location, "location", "mill pond", "fishing spot")
	fs.StringVar(&f.bait, "bait", "worm", "bait on the hook")
	fs.Float64Var(&f.rigDepthM, "rig-depth", 0, "rig depth in meters, 0 fishes at the spot's depth")
	fs.Float64Var(&f.hookQuality, "hook-quality", 0.7, "how well the hook was set, 0..1")
	fs.Float64Var(&f.difficulty, "difficulty", e.cfg.Fight.Difficulty, "difficulty 0..1")
	fs.Uint64Var(&f.seed, "seed", 0, "rng seed, 0 picks one from the clock")
	fs.StringVar(&f.rod, "rod", e.cfg.Loadout.Rod, "rod")
	fs.StringVar(&f.line, "line", e.cfg.Loadout.Line, "line")
	fs.StringVar(&f.reel, "reel", e.cfg.Loadout.Reel, "reel")
	fs.StringVar(&f.hook, "hook", e.cfg.Loadout.Hook, "hook")
}

// newFight resolves the flags against the catalog and starts a fight.
func (f *fightFlags) newFight(e *env) (*fishing.Fight, error) {
	seed := f.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	species, err := e.catalog.Species(f.species)
	if err != nil {
		return nil, err
	}
	loc, err := e.catalog.Location(f.location)
	if err != nil {
		return nil, err
	}
	bait, err := e.catalog.Bait(f.bait)
	if err != nil {
		return nil, err
	}
	gear, err := e.catalog.Gear(data.Loadout{Rod: f.rod, Line: f.line, Reel: f.reel, Hook: f.hook})
	if err != nil {
		return nil, err
	}

	weight := f.weightKg
	if weight <= 0 {
		weight = species.RollWeight(fishing.NewRand(seed))
	}
	fish := species.Stats(weight)

	rigDepth := f.rigDepthM
	if rigDepth <= 0 {
		rigDepth = loc.DepthM
	}

	params := fishing.Derive(gear, fish, f.hookQuality,
		fishing.WithTuning(e.tuning),
		fishing.WithEnvironment(loc.Environment()),
		fishing.WithRigDelta(loc.RigDelta(rigDepth)),
		fishing.WithDifficulty(f.difficulty),
	)
	slog.Debug("fight parameters",
		"species", fish.Species,
		"weight_kg", fish.WeightKg,
		"rod_fill", params.RodFillRate,
		"line_fill", params.LineFillRate,
		"pull_speed", params.PullSpeed,
		"fish_speed", params.FishSpeed,
		"escape_window", params.EscapeWindow,
		"slip_chance", params.SlipChance)

	fight, err := fishing.NewFight(fish, gear, params, fishing.FightOptions{
		Seed:    seed,
		HardCap: e.cfg.Fight.HardCap,
		Context: fishing.CatchContext{
			AnglerID: f.anglerID,
			Bait:     bait.Name,
			Location: loc.Name,
			DepthM:   rigDepth,
			BittenAt: time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("starting fight: %w", err)
	}
	return fight, nil
}

func printOutcome(o *fishing.Outcome, seed uint64) {
	if o == nil {
		return
	}
	if o.Caught() {
		fmt.Printf("landed %s %.2f kg in %.1fs (seed %d)\n",
			o.Fish.Species, o.Fish.WeightKg, o.Elapsed.Seconds(), seed)
		return
	}
	fmt.Printf("%s: %s after %.1fs, rod %.0f line %.0f (seed %d)\n",
		o.Phase, o.Cause, o.Elapsed.Seconds(), o.Final.RodTension, o.Final.LineTension, seed)
}

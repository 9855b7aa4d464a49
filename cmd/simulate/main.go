// Package main resolves one Trinity Tactics battle from the command line and
// prints its turn log.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/cory-johannsen/trinity/internal/config"
	"github.com/cory-johannsen/trinity/internal/game/battle"
	"github.com/cory-johannsen/trinity/internal/game/dice"
	"github.com/cory-johannsen/trinity/internal/game/roster"
	"github.com/cory-johannsen/trinity/internal/game/score"
	"github.com/cory-johannsen/trinity/internal/gameserver"
	"github.com/cory-johannsen/trinity/internal/narration"
	"github.com/cory-johannsen/trinity/internal/observability"
)

type options struct {
	player    string
	opponent  string
	seed      string
	rosterDir string
	asJSON    bool
	duel      bool
	logLevel  string
}

func main() {
	var opts options
	flag.StringVar(&opts.player, "player", "", "player combatant id (default: first roster entry)")
	flag.StringVar(&opts.opponent, "opponent", "", "opponent combatant id (default: first opponent)")
	flag.StringVar(&opts.seed, "seed", "", "unsigned seed for a replayable battle (default: crypto randomness)")
	flag.StringVar(&opts.rosterDir, "roster-dir", "", "directory holding roster.yaml and opponents.yaml (default: demo roster)")
	flag.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	flag.BoolVar(&opts.duel, "duel", false, "settle with the one-step score duel instead of turns")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("simulate: %v", err)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	logger, err := observability.NewLogger(config.LoggingConfig{Level: opts.logLevel, Format: "console"}, "simulate")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	r := roster.Demo()
	if opts.rosterDir != "" {
		if r, err = roster.LoadDir(opts.rosterDir); err != nil {
			return err
		}
	}

	req := gameserver.ResolveRequest{PlayerID: opts.player, OpponentID: opts.opponent}
	ids := battle.CryptoIDs
	if opts.seed != "" {
		seed, err := strconv.ParseUint(opts.seed, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing -seed: %w", err)
		}
		req.Seed = &seed
		ids = battle.SourceIDs
	}

	svc := gameserver.NewBattleService(
		config.GameServerConfig{},
		r,
		nil,
		battle.NewResolver(battle.WithIDGenerator(ids), battle.WithLogger(logger)),
		narration.StaticNarrator{},
		dice.NewLoggedRoller(dice.NewCryptoSource(), logger),
		dice.MustParse(score.DefaultLuck),
		logger,
	)

	if opts.duel {
		v, err := svc.Duel(ctx, "", req.PlayerID, req.OpponentID)
		if err != nil {
			return err
		}
		if opts.asJSON {
			return writeJSON(out, v)
		}
		return writeVerdict(out, v)
	}

	outcome, err := svc.Resolve(ctx, req)
	if err != nil {
		return err
	}
	logger.Debug("battle complete", zap.String("battle_id", outcome.ID))
	if opts.asJSON {
		return writeJSON(out, outcome)
	}
	return writeOutcome(out, outcome)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func counterMark(countered bool) string {
	if countered {
		return "*"
	}
	return ""
}

func writeOutcome(out io.Writer, o gameserver.Outcome) error {
	fmt.Fprintf(out, "Battle %s: %s vs %s\n\n", o.ID, o.Player.Name, o.Opponent.Name)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TURN\tPLAYER\tOPPONENT\tDEALT\tTAKEN\tPLAYER HP\tOPPONENT HP")
	for _, t := range o.Turns {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d%s\t%d%s\t%d\t%d\n",
			t.Turn, t.PlayerAction, t.OpponentAction,
			t.DamageToOpponent, counterMark(t.PlayerCountered),
			t.DamageToPlayer, counterMark(t.OpponentCountered),
			t.PlayerHP, t.OpponentHP)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	winner := o.Opponent.Name
	if o.WinnerID == o.Player.ID {
		winner = o.Player.Name
	}
	fmt.Fprintf(out, "\n* counter hit\n%s wins in %d turns with %d HP left, +%d XP.\n%s\n",
		winner, o.TotalTurns, o.WinnerFinalHP, o.XPGain, o.Recap)
	return nil
}

func writeVerdict(out io.Writer, v score.Verdict) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMBATANT\tLUCK\tSCORE")
	for _, s := range []score.Side{v.First, v.Second} {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", s.Name, s.Luck, s.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nWinner: %s, +%d XP.\n", v.WinnerID, v.XPGain)
	return nil
}

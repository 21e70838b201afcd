package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/hdgdrill/internal/drill"
	"github.com/verte-zerg/hdgdrill/internal/heading"
	"github.com/verte-zerg/hdgdrill/internal/model"
	"github.com/verte-zerg/hdgdrill/internal/stats"
	"github.com/verte-zerg/hdgdrill/internal/store"
)

const (
	defaultSimTurns    = 20
	defaultSimReaction = 1500 * time.Millisecond
	defaultTrendWindow = 5
)

var (
	simTurns    int
	simSeed     int64
	simReaction time.Duration
	simWindow   int
)

// simulation describes one headless run on a virtual clock.
type simulation struct {
	Config   model.Config
	Timings  drill.Timings
	Turns    int
	Seed     int64
	Reaction time.Duration
	Start    time.Time
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless session on a virtual clock and print the report",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	cmd.Flags().IntVar(&simTurns, "turns", defaultSimTurns, "number of turns to complete")
	cmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (default: current time)")
	cmd.Flags().DurationVar(&simReaction, "reaction", defaultSimReaction, "time from angle reveal to acknowledgment")
	cmd.Flags().IntVar(&simWindow, "trend-window", defaultTrendWindow, "moving average window for the trend line")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveTrainerConfig(cmd)
	if err != nil {
		return err
	}
	if simTurns <= 0 {
		return fmt.Errorf("--turns must be > 0")
	}
	if simReaction < 0 {
		return fmt.Errorf("--reaction must be >= 0")
	}
	if simWindow <= 0 {
		return fmt.Errorf("--trend-window must be > 0")
	}
	seed := simSeed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	logErrf("Simulating %d turns (seed %d)\n", simTurns, seed)

	sim := simulation{
		Config:   cfg,
		Timings:  drill.DefaultTimings(),
		Turns:    simTurns,
		Seed:     seed,
		Reaction: simReaction,
		Start:    time.Now(),
	}
	if err := writeSimulation(cmd.OutOrStdout(), sim, simWindow, stats.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to simulate: %w", err)
	}
	return nil
}

// run drives a controller through the configured number of turns and
// journals the results into st. It returns the journaled session id.
func (s simulation) run(ctx context.Context, st *store.Store) (int64, error) {
	ctrl := drill.New(heading.NewWithSeed(s.Seed), s.Config, s.Timings)
	now := s.Start
	if !ctrl.Start(now) {
		return 0, fmt.Errorf("failed to start session")
	}
	sessionID, err := st.BeginSession(ctx, now, s.Config)
	if err != nil {
		return 0, fmt.Errorf("failed to journal session: %w", err)
	}
	record := func(events []model.Event) error {
		for _, ev := range events {
			if err := st.RecordEvent(ctx, sessionID, ev); err != nil {
				return err
			}
		}
		return nil
	}

	var revealedAt time.Time
	for ctrl.Snapshot().Session.TurnCount < s.Turns {
		if ctrl.Snapshot().State == model.ShowingAngle {
			now = revealedAt.Add(s.Reaction)
			if err := record(ctrl.Acknowledge(now)); err != nil {
				return 0, err
			}
			continue
		}
		next, ok := ctrl.NextDeadline()
		if !ok {
			return 0, fmt.Errorf("session stalled in state %s", ctrl.Snapshot().State)
		}
		now = next
		events := ctrl.Advance(now)
		for _, ev := range events {
			if ev.Type == model.EventAngleRevealed {
				revealedAt = ev.At
			}
		}
		if err := record(events); err != nil {
			return 0, err
		}
	}

	// Let a shift earned by the last turn land before stopping.
	now = now.Add(ctrl.Timings().ShiftDelay)
	if err := record(ctrl.Advance(now)); err != nil {
		return 0, err
	}
	ctrl.Pause(now)
	return sessionID, nil
}

// writeSimulation runs sim against a fresh in-memory journal and renders the
// report to w.
func writeSimulation(w io.Writer, sim simulation, window, width int) error {
	st, err := store.OpenMemory()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrln("failed to close journal:", cerr)
		}
	}()
	ctx := context.Background()
	sessionID, err := sim.run(ctx, st)
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(ctx, st, sessionID)
	if err != nil {
		return err
	}
	return report.Render(w, window, width)
}

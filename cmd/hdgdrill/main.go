// Package main provides the CLI entrypoint for hdgdrill.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/hdgdrill/internal/config"
	"github.com/verte-zerg/hdgdrill/internal/drill"
	"github.com/verte-zerg/hdgdrill/internal/heading"
	"github.com/verte-zerg/hdgdrill/internal/model"
	"github.com/verte-zerg/hdgdrill/internal/store"
	"github.com/verte-zerg/hdgdrill/internal/tui"
)

var (
	trainerFreq45         int
	trainerFreq90         int
	trainerFreq180        int
	trainerDelay          int
	trainerShiftAfter     int
	trainerShiftAmount    int
	trainerInitialHeading int
	trainerRoundTo        int

	logPath string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hdgdrill",
		Short:         "Heading-after-turn mental drill",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDrillCmd,
	}

	defaults := config.Defaults()
	flags := rootCmd.PersistentFlags()
	flags.IntVar(&trainerFreq45, "freq45", defaults.Frequency45, "relative weight of 45° turns")
	flags.IntVar(&trainerFreq90, "freq90", defaults.Frequency90, "relative weight of 90° turns")
	flags.IntVar(&trainerFreq180, "freq180", defaults.Frequency180, "relative weight of 180° turns")
	flags.IntVar(&trainerDelay, "delay", defaults.DelayMs, "milliseconds between direction and angle")
	flags.IntVar(&trainerShiftAfter, "shift-after", defaults.ShiftAfterTurns, "turns between heading shifts")
	flags.IntVar(&trainerShiftAmount, "shift-amount", defaults.ShiftAmount, "maximum heading shift in degrees (0-180)")
	flags.IntVar(&trainerInitialHeading, "initial-heading", defaults.InitialHeading, "heading at session start (1-360)")
	flags.IntVar(&trainerRoundTo, "round-to", defaults.RoundToNearest, "heading granularity in degrees")
	rootCmd.Flags().StringVar(&logPath, "log", "", "write debug log to file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

// resolveTrainerConfig merges flags over the config file. Explicit flags win.
func resolveTrainerConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	file := fileCfg.Trainer
	applyIntConfig(cmd, "freq45", &trainerFreq45, file.Frequency45)
	applyIntConfig(cmd, "freq90", &trainerFreq90, file.Frequency90)
	applyIntConfig(cmd, "freq180", &trainerFreq180, file.Frequency180)
	applyIntConfig(cmd, "delay", &trainerDelay, file.DelayMs)
	applyIntConfig(cmd, "shift-after", &trainerShiftAfter, file.ShiftAfterTurns)
	applyIntConfig(cmd, "shift-amount", &trainerShiftAmount, file.ShiftAmount)
	applyIntConfig(cmd, "initial-heading", &trainerInitialHeading, file.InitialHeading)
	applyIntConfig(cmd, "round-to", &trainerRoundTo, file.RoundToNearest)

	cfg := model.Config{
		Frequency45:     trainerFreq45,
		Frequency90:     trainerFreq90,
		Frequency180:    trainerFreq180,
		DelayMs:         trainerDelay,
		ShiftAfterTurns: trainerShiftAfter,
		ShiftAmount:     trainerShiftAmount,
		InitialHeading:  trainerInitialHeading,
		RoundToNearest:  trainerRoundTo,
	}
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveTrainerConfig(cmd)
	if err != nil {
		return err
	}

	if logPath != "" {
		f, err := tea.LogToFile(logPath, "hdgdrill")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logErrf("failed to close log file: %v\n", cerr)
			}
		}()
	} else {
		log.SetOutput(io.Discard)
	}

	st, err := store.OpenMemory()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close journal: %v\n", cerr)
		}
	}()

	ctrl := drill.New(heading.New(), cfg, drill.DefaultTimings())
	model := tui.NewModel(ctrl, st)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	d := config.Defaults()
	return fmt.Sprintf(`# hdgdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[trainer]
# freq45 = %d             # Relative weight of 45 degree turns
# freq90 = %d             # Relative weight of 90 degree turns
# freq180 = %d            # Relative weight of 180 degree turns
# delay-ms = %d         # Milliseconds between direction and angle
# shift-after = %d         # Turns between heading shifts
# shift-amount = %d       # Maximum heading shift in degrees (0-180)
# initial-heading = %d   # Heading at session start (1-360)
# round-to = %d            # Heading granularity in degrees
`,
		d.Frequency45,
		d.Frequency90,
		d.Frequency180,
		d.DelayMs,
		d.ShiftAfterTurns,
		d.ShiftAmount,
		d.InitialHeading,
		d.RoundToNearest,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

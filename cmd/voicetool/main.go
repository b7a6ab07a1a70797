// voicetool - a small host harness around the multivoice core: loads a
// TOML voice patch, drives it through the register surface exactly as a
// real driver would, and either plays it live through oto or dumps a
// point-in-time snapshot.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/octavecore/multivoice"
)

var (
	flagPatch      string
	flagSampleRate int
	flagClockHz    uint32
	flagDuration   time.Duration
	flagVerbose    bool
	flagROM        string
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	rootCmd := &cobra.Command{
		Use:   "voicetool",
		Short: "Drive and audition a multivoice tone-generator chip",
	}
	rootCmd.PersistentFlags().StringVar(&flagPatch, "patch", "", "path to a TOML voice patch (required)")
	rootCmd.PersistentFlags().IntVar(&flagSampleRate, "sample-rate", 44100, "output sample rate in Hz")
	rootCmd.PersistentFlags().Uint32Var(&flagClockHz, "clock-hz", 0, "chip master clock in Hz (0 = core default)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Apply a patch and play it through the default audio device",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(logger)
		},
	}
	playCmd.Flags().DurationVar(&flagDuration, "duration", 5*time.Second, "how long to play before exiting")
	playCmd.Flags().StringVar(&flagROM, "rom", "", "path to a raw PCM ROM image (optional)")

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Apply a patch and print a JSON snapshot of the resulting chip state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(logger)
		},
	}

	rootCmd.AddCommand(playCmd, dumpCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildChip(logger *log.Logger) (*multivoice.Chip, error) {
	if flagPatch == "" {
		return nil, fmt.Errorf("--patch is required")
	}
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	patch, err := LoadPatch(flagPatch)
	if err != nil {
		return nil, err
	}

	c := multivoice.NewChip(multivoice.Config{
		ClockHz:    flagClockHz,
		SampleRate: flagSampleRate,
	})
	c.AttachLogger(chipLogAdapter{logger})

	if flagROM != "" {
		data, err := os.ReadFile(flagROM)
		if err != nil {
			return nil, fmt.Errorf("read rom %s: %w", flagROM, err)
		}
		c.AttachROM(multivoice.NewROM(data))
	}

	patch.Apply(c)
	logger.Debug("patch applied", "groups", len(patch.Groups))
	return c, nil
}

func runPlay(logger *log.Logger) error {
	c, err := buildChip(logger)
	if err != nil {
		return err
	}

	player, err := newChipPlayer(flagSampleRate)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	defer player.close()

	player.setup(c)
	player.start()
	logger.Info("playing", "duration", flagDuration, "sample_rate", flagSampleRate)
	time.Sleep(flagDuration)
	return nil
}

func runDump(logger *log.Logger) error {
	c, err := buildChip(logger)
	if err != nil {
		return err
	}

	// Advance one 64-sample block so the snapshot reflects post-key-on
	// envelope and phase progress, not just the register writes.
	left := make([]int32, 64)
	right := make([]int32, 64)
	c.Update(64, left, right)

	st := c.Snapshot()
	out, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// chipLogAdapter bridges the core's minimal Logger interface onto the
// CLI's structured logger.
type chipLogAdapter struct{ l *log.Logger }

func (a chipLogAdapter) Printf(format string, args ...any) {
	a.l.Debugf(format, args...)
}

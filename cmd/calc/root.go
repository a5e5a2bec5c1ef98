package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scicalc/internal/config"
	"scicalc/internal/engine"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli carries the state shared by every subcommand.
type cli struct {
	cfgFile string
	radians bool
	verbose bool

	mode   engine.AngleMode
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "calc",
		Short:         "calc - a scientific calculator keypad on the command line",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "YAML config file (angle_mode is honored)")
	flags.BoolVar(&c.radians, "radians", false, "Read trigonometric input in radians")
	flags.BoolVar(&c.verbose, "verbose", false, "Log debug output to stderr")

	rootCmd.AddCommand(newPressCmd(c))
	rootCmd.AddCommand(newReplCmd(c))
	rootCmd.AddCommand(newMCPCmd(c))

	return rootCmd
}

func (c *cli) setup(stderr io.Writer) error {
	level := zapcore.WarnLevel
	if c.verbose {
		level = zapcore.DebugLevel
	}
	c.logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		level,
	))

	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c.mode = cfg.AngleMode
	if c.radians {
		c.mode = engine.Radians
	}

	c.logger.Debug("calculator ready", zap.Stringer("angle_mode", c.mode), zap.String("config", c.cfgFile))
	return nil
}

func (c *cli) newEngine() *engine.Engine {
	e := engine.New()
	e.SetAngleMode(c.mode)
	return e
}

func printDisplay(w io.Writer, d engine.Display) {
	if d.Secondary != "" {
		fmt.Fprintln(w, d.Secondary)
	}
	fmt.Fprintln(w, d.Primary)
}

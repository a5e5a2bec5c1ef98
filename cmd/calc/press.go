package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scicalc/internal/engine"
)

func newPressCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "press KEY...",
		Short: "Press keys on a fresh calculator and print both displays",
		Long: `Press keys in order on a fresh calculator, then print the secondary
display (when something is pending) and the primary display.
Example) calc press 12.5 × 4 =`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := c.newEngine()
			keys := engine.SplitKeys(strings.Join(args, " "))

			if err := e.PressAll(keys...); err != nil {
				return err
			}

			c.logger.Debug("keys pressed", zap.Strings("keys", keys))
			printDisplay(cmd.OutOrStdout(), e.Display())
			return nil
		},
	}
}

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scicalc/internal/engine"
)

func newReplCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read keys from stdin line by line and print the display after each line",
		Long: `Each input line is a run of keys, for example "12 + 3" then "=".
A line with an unknown key is rejected as a whole. "quit" or "exit" ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			e := c.newEngine()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(line) {
				case "":
					continue
				case "quit", "exit":
					return nil
				}

				next, err := pressLine(e, line)
				if err != nil {
					c.logger.Debug("line rejected", zap.String("line", line), zap.Error(err))
					fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
					continue
				}
				e = next

				printDisplay(out, e.Display())
			}

			return scanner.Err()
		},
	}
}

// pressLine applies one line of keys to a copy of e.
func pressLine(e *engine.Engine, line string) (*engine.Engine, error) {
	next, err := engine.Restore(e.Snapshot())
	if err != nil {
		return nil, err
	}

	if err := next.PressAll(engine.SplitKeys(line)...); err != nil {
		return nil, err
	}

	return next, nil
}

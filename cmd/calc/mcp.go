package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"scicalc/internal/mcptool"
)

func newMCPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calculator as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := mcptool.NewCalculator(c.mode, c.logger)
			s := mcptool.NewServer("scicalc", version, calc)

			c.logger.Info("serving MCP over stdio")
			return server.ServeStdio(s)
		},
	}
}

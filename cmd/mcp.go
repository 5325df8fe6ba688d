package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/daeunko/curator/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing
recommendation and learning tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		loadVectors(d)

		cur, err := buildCurator(d)
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		// Stdout carries protocol messages; greet on stderr.
		fmt.Fprintln(os.Stderr, "curator MCP server started on stdio")

		return mcpserver.NewServer(cur, d.logger).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

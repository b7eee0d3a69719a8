package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eduardofuncao/sqlhelp/internal/logger"
)

func (a *App) newSelfTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Open and close one connection for the selected profile",
		Args:  cobra.NoArgs,
		RunE:  a.runSelfTest,
	}
}

// runSelfTest opens a connection, checks it answers and closes it, printing
// each step as it goes.
func (a *App) runSelfTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintln(out, "## DB Connection Test ##")
	fmt.Fprintln(out, "# Start #")

	fmt.Fprintln(out, "Create Connection")
	conn, err := a.factory().Connect(ctx)
	if err != nil {
		logger.Error("self-test failed", "step", "connect", "error", err)
		return err
	}

	fmt.Fprintln(out, "Cursor")
	if err := conn.PingContext(ctx); err != nil {
		logger.Error("self-test failed", "step", "ping", "error", err)
		conn.Close()
		return err
	}

	fmt.Fprintln(out, "Close")
	if err := conn.Close(); err != nil {
		return err
	}

	fmt.Fprintln(out, "# Finished #")
	return nil
}

package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newSignalCommand(ctx *commandContext) *cobra.Command {
	signalCmd := &cobra.Command{
		Use:   "signal",
		Short: "Wait on and disconnect element signals",
	}

	signalCmd.AddCommand(&cobra.Command{
		Use:   "connect <pipeline> <element> <signal>",
		Short: "Block until the signal fires or its timeout lapses",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := c.SignalConnect(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	})

	signalCmd.AddCommand(&cobra.Command{
		Use:   "timeout <pipeline> <element> <signal> <duration>",
		Short: "Set the signal wait window (-1us waits forever, 0 returns at once)",
		Args:  cobra.ExactArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			window, err := time.ParseDuration(args[3])
			if err != nil {
				return err
			}
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.SignalTimeout(args[0], args[1], args[2], window.Microseconds())
		},
	})

	signalCmd.AddCommand(&cobra.Command{
		Use:   "disconnect <pipeline> <element> <signal>",
		Short: "Release a pending signal wait",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.SignalDisconnect(args[0], args[1], args[2])
		},
	})

	return signalCmd
}

package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newBusCommand(ctx *commandContext) *cobra.Command {
	busCmd := &cobra.Command{
		Use:   "bus",
		Short: "Filter and read pipeline bus messages",
	}

	busCmd.AddCommand(&cobra.Command{
		Use:   "filter <pipeline> <types>",
		Short: "Select which message types bus reads return (e.g. eos+error)",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.BusFilter(args[0], args[1])
		},
	})

	busCmd.AddCommand(&cobra.Command{
		Use:   "timeout <pipeline> <duration>",
		Short: "Set how long a bus read waits (-1ns waits forever, 0 returns at once)",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			window, err := time.ParseDuration(args[1])
			if err != nil {
				return err
			}
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.BusTimeout(args[0], window.Nanoseconds())
		},
	})

	busCmd.AddCommand(&cobra.Command{
		Use:   "read <pipeline>",
		Short: "Pop the next filtered message from the bus",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := c.BusRead(args[0])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	})

	busCmd.AddCommand(&cobra.Command{
		Use:   "wait <pipeline> <types> <duration>",
		Short: "Filter, arm the timeout, and read in one step",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			window, err := time.ParseDuration(args[2])
			if err != nil {
				return err
			}
			c, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := c.WaitForBusMessage(args[0], args[1], window.Nanoseconds())
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	})

	return busCmd
}

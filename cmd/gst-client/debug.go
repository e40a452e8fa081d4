package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newDebugCommand(ctx *commandContext) *cobra.Command {
	debugCmd := &cobra.Command{
		Use:   "debug",
		Short: "Control the daemon's GStreamer debug output",
	}

	debugCmd.AddCommand(&cobra.Command{
		Use:   "enable <true|false>",
		Short: "Turn debug logging on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			enable, err := strconv.ParseBool(args[0])
			if err != nil {
				return err
			}
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.DebugEnable(enable)
		},
	})

	debugCmd.AddCommand(&cobra.Command{
		Use:   "threshold <levels>",
		Short: "Set the debug threshold (gst-launch --gst-debug syntax)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.DebugThreshold(args[0])
		},
	})

	debugCmd.AddCommand(&cobra.Command{
		Use:   "color <true|false>",
		Short: "Enable or disable colored debug output",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			enable, err := strconv.ParseBool(args[0])
			if err != nil {
				return err
			}
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.DebugColor(enable)
		},
	})

	debugCmd.AddCommand(&cobra.Command{
		Use:   "reset <true|false>",
		Short: "Reset the threshold to or from the environment default",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reset, err := strconv.ParseBool(args[0])
			if err != nil {
				return err
			}
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.DebugReset(reset)
		},
	})

	return debugCmd
}

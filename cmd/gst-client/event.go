package main

import (
	"github.com/spf13/cobra"

	"github.com/wildhunter-66/gstd-1.x/client"
)

func newEventCommand(ctx *commandContext) *cobra.Command {
	eventCmd := &cobra.Command{
		Use:   "event",
		Short: "Push events into a pipeline",
	}

	eventCmd.AddCommand(&cobra.Command{
		Use:   "eos <pipeline>",
		Short: "Send an end-of-stream event",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.EventEOS(args[0])
		},
	})

	eventCmd.AddCommand(&cobra.Command{
		Use:   "flush-start <pipeline>",
		Short: "Start flushing the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.EventFlushStart(args[0])
		},
	})

	flushStop := &cobra.Command{
		Use:   "flush-stop <pipeline>",
		Short: "Stop flushing the pipeline",
		Args:  cobra.ExactArgs(1),
	}
	flushReset := flushStop.Flags().Bool("reset", true, "Reset the running time")
	flushStop.RunE = func(_ *cobra.Command, args []string) error {
		c, err := ctx.client()
		if err != nil {
			return err
		}
		return c.EventFlushStopReset(args[0], *flushReset)
	}
	eventCmd.AddCommand(flushStop)

	seek := &cobra.Command{
		Use:   "seek <pipeline>",
		Short: "Seek the pipeline",
		Args:  cobra.ExactArgs(1),
	}
	opts := client.DefaultSeekOptions()
	seek.Flags().Float64Var(&opts.Rate, "rate", opts.Rate, "Playback rate, negative plays backwards")
	seek.Flags().Int64Var(&opts.Start, "start", opts.Start, "Seek start position in nanoseconds")
	seek.Flags().Int64Var(&opts.End, "end", opts.End, "Seek end position in nanoseconds, -1 for stream end")
	seek.Flags().IntVar(&opts.Format, "format", opts.Format, "GstFormat numeric value")
	seek.Flags().IntVar(&opts.Flags, "seek-flags", opts.Flags, "GstSeekFlags bitmask")
	seek.RunE = func(_ *cobra.Command, args []string) error {
		c, err := ctx.client()
		if err != nil {
			return err
		}
		return c.EventSeek(args[0], opts)
	}
	eventCmd.AddCommand(seek)

	return eventCmd
}

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildhunter-66/gstd-1.x/client"
)

func newPipelineCommand(ctx *commandContext) *cobra.Command {
	pipelineCmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Create, control, and tear down pipelines",
	}

	pipelineCmd.AddCommand(&cobra.Command{
		Use:   "create <name> <description...>",
		Short: "Create a pipeline from a gst-launch description",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.PipelineCreate(args[0], strings.Join(args[1:], " "))
		},
	})

	for _, sub := range []struct {
		use   string
		short string
		run   func(c *client.Client, name string) error
	}{
		{"play <name>", "Transition a pipeline to PLAYING", func(c *client.Client, name string) error { return c.PipelinePlay(name) }},
		{"pause <name>", "Transition a pipeline to PAUSED", func(c *client.Client, name string) error { return c.PipelinePause(name) }},
		{"stop <name>", "Transition a pipeline to NULL", func(c *client.Client, name string) error { return c.PipelineStop(name) }},
		{"delete <name>", "Destroy a pipeline", func(c *client.Client, name string) error { return c.PipelineDelete(name) }},
	} {
		run := sub.run
		pipelineCmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				c, err := ctx.client()
				if err != nil {
					return err
				}
				return run(c, args[0])
			},
		})
	}

	return pipelineCmd
}

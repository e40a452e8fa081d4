package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newElementCommand(ctx *commandContext) *cobra.Command {
	elementCmd := &cobra.Command{
		Use:   "element",
		Short: "Inspect and set element properties",
	}

	elementCmd.AddCommand(&cobra.Command{
		Use:   "get <pipeline> <element> <property>",
		Short: "Read an element property",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			value, err := c.ElementGet(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	})

	elementCmd.AddCommand(&cobra.Command{
		Use:   "set <pipeline> <element> <property> <value>",
		Short: "Write an element property",
		Args:  cobra.ExactArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			return c.ElementSet(args[0], args[1], args[2], args[3])
		},
	})

	return elementCmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Enumerate pipelines, elements, properties, and signals",
	}

	listCmd.AddCommand(&cobra.Command{
		Use:   "pipelines",
		Short: "Show all pipelines known to the daemon",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			nodes, err := c.ListPipelines()
			if err != nil {
				return err
			}
			printNodes(nodes)
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "elements <pipeline>",
		Short: "Show the elements of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			nodes, err := c.ListElements(args[0])
			if err != nil {
				return err
			}
			printNodes(nodes)
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "properties <pipeline> <element>",
		Short: "Show the properties of an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			nodes, err := c.ListProperties(args[0], args[1])
			if err != nil {
				return err
			}
			printNodes(nodes)
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "signals <pipeline> <element>",
		Short: "Show the signals of an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := ctx.client()
			if err != nil {
				return err
			}
			nodes, err := c.ListSignals(args[0], args[1])
			if err != nil {
				return err
			}
			printNodes(nodes)
			return nil
		},
	})

	return listCmd
}

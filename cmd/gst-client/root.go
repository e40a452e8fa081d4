package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wildhunter-66/gstd-1.x/client"
	"github.com/wildhunter-66/gstd-1.x/loadbalance"
	"github.com/wildhunter-66/gstd-1.x/registry"
)

// commandContext carries the connection settings shared by every subcommand
// and builds the client lazily so `gst-client help` never dials anything.
type commandContext struct {
	host     string
	port     int
	timeout  time.Duration
	registry []string
	quiet    bool

	c *client.Client
}

func (ctx *commandContext) client() (*client.Client, error) {
	if ctx.c != nil {
		return ctx.c, nil
	}

	log := zap.NewNop()
	if !ctx.quiet {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		log = l
	}
	opts := []client.Option{
		client.WithTimeout(ctx.timeout),
		client.WithLogger(log),
	}

	var (
		c   *client.Client
		err error
	)
	if len(ctx.registry) > 0 {
		var reg *registry.EtcdRegistry
		reg, err = registry.NewEtcdRegistry(ctx.registry)
		if err != nil {
			return nil, err
		}
		c, err = client.NewDiscovered(reg, &loadbalance.RoundRobin{}, opts...)
	} else {
		c, err = client.New(ctx.host, ctx.port, opts...)
	}
	if err != nil {
		return nil, err
	}
	ctx.c = c
	return c, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "gst-client",
		Short:         "Command line control of a running GStreamer Daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindSettings(cmd, ctx)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if ctx.c != nil {
				return ctx.c.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("host", "localhost", "Address of the daemon")
	flags.Int("port", client.DefaultPort, "Control port of the daemon")
	flags.Duration("timeout", 0, "Per-request timeout (0 waits forever)")
	flags.StringSlice("registry", nil, "etcd endpoints for daemon discovery")
	flags.BoolP("quiet", "q", false, "Suppress log output")

	rootCmd.AddCommand(newPipelineCommand(ctx))
	rootCmd.AddCommand(newElementCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newBusCommand(ctx))
	rootCmd.AddCommand(newSignalCommand(ctx))
	rootCmd.AddCommand(newEventCommand(ctx))
	rootCmd.AddCommand(newDebugCommand(ctx))

	return rootCmd
}

// bindSettings resolves each connection setting with flag > environment
// precedence. Environment variables use the GSTC_ prefix (GSTC_HOST,
// GSTC_PORT, GSTC_TIMEOUT, GSTC_REGISTRY).
func bindSettings(cmd *cobra.Command, ctx *commandContext) error {
	v := viper.New()
	v.SetEnvPrefix("GSTC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range []string{"host", "port", "timeout", "registry", "quiet"} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}

	ctx.host = v.GetString("host")
	ctx.port = v.GetInt("port")
	ctx.timeout = v.GetDuration("timeout")
	ctx.registry = v.GetStringSlice("registry")
	ctx.quiet = v.GetBool("quiet")
	return nil
}

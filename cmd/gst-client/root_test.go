package main

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wildhunter-66/gstd-1.x/gstdtest"
)

func startDaemon(t *testing.T) *gstdtest.Daemon {
	t.Helper()
	d, err := gstdtest.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func runCommand(t *testing.T, d *gstdtest.Daemon, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetArgs(append([]string{
		"--quiet",
		"--host", d.Host(),
		"--port", strconv.Itoa(d.Port()),
	}, args...))
	return cmd.Execute()
}

func TestPipelineCommands(t *testing.T) {
	d := startDaemon(t)

	require.NoError(t, runCommand(t, d, "pipeline", "create", "p0", "videotestsrc", "name=v0", "!", "fakesink"))
	require.NoError(t, runCommand(t, d, "pipeline", "play", "p0"))
	require.NoError(t, runCommand(t, d, "pipeline", "stop", "p0"))
	require.NoError(t, runCommand(t, d, "pipeline", "delete", "p0"))

	cmds := d.Commands()
	require.Contains(t, cmds, "pipeline_create p0 videotestsrc name=v0 ! fakesink")
	require.Contains(t, cmds, "pipeline_play p0")
}

func TestDaemonFailureSurfacesOnExit(t *testing.T) {
	d := startDaemon(t)

	err := runCommand(t, d, "pipeline", "play", "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing")
}

func TestBusTimeoutAcceptsDurations(t *testing.T) {
	d := startDaemon(t)

	require.NoError(t, runCommand(t, d, "pipeline", "create", "p0", "videotestsrc", "!", "fakesink"))
	require.NoError(t, runCommand(t, d, "bus", "timeout", "p0", "1s"))

	require.Contains(t, d.Commands(), "bus_timeout p0 1000000000")
}

func TestHostReadFromEnvironment(t *testing.T) {
	d := startDaemon(t)
	t.Setenv("GSTC_HOST", d.Host())
	t.Setenv("GSTC_PORT", strconv.Itoa(d.Port()))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--quiet", "pipeline", "create", "p0", "fakesrc", "!", "fakesink"})
	require.NoError(t, cmd.Execute())
	require.NotEmpty(t, d.Commands())
}

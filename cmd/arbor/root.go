package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor prints the accessibility tree of the desktop session",
	Long: `Arbor connects to the AT-SPI accessibility bus, builds the tree of accessible
objects of every running application and prints it.

Run without a subcommand it behaves like 'arbor snapshot'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSnapshot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./arbor.yaml)")
	pf.Bool("debug", false, "Log to stderr at debug level")
	pf.Bool("demo", false, "Inspect a built-in synthetic desktop instead of the bus")
	pf.String("bus-address", "", "Accessibility bus address (skips the session bus lookup)")
	pf.String("export", "", "Export snapshots to a sink (path, file://, redis://, memory:)")
	pf.Int("threshold", 0, "Child count above which the build stops with a diagnostic")
	pf.String("metrics-file", "", "Write Prometheus metrics to this file on exit")

	addSnapshotFlags(rootCmd)
}

// sessionOptions collects the persistent flags.
func sessionOptions(cmd *cobra.Command) cli.Options {
	f := cmd.Flags()
	opts := cli.Options{}
	opts.ConfigPath, _ = f.GetString("config")
	opts.Debug, _ = f.GetBool("debug")
	opts.Demo, _ = f.GetBool("demo")
	opts.BusAddress, _ = f.GetString("bus-address")
	opts.Export, _ = f.GetString("export")
	opts.Threshold, _ = f.GetInt("threshold")
	opts.MetricsFile, _ = f.GetString("metrics-file")
	if f.Lookup("style") != nil {
		opts.Style, _ = f.GetString("style")
	}
	return opts
}

// openSession opens a session and registers its release with the command.
func openSession(cmd *cobra.Command) (*cli.Session, error) {
	s, err := cli.Open(cmd.Context(), sessionOptions(cmd))
	if err != nil {
		return nil, err
	}
	cobra.OnFinalize(func() {
		if err := s.Close(); err != nil {
			s.Logger.Error("Close failed", "error", err)
		}
	})
	return s, nil
}

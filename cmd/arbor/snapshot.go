package main

import (
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Build the accessibility tree and print it",
	Long: `Builds the accessibility tree, prints a summary table and then the tree.

When stdin is a terminal it waits for Enter between the summary and the tree;
--no-pause skips the wait.
If an object reports more children than the threshold, a diagnostic report
about that object is printed instead and the command exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func addSnapshotFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text, json, yaml or mermaid")
	cmd.Flags().String("style", "", "Connector style: unicode, ascii or rounded")
	cmd.Flags().Bool("show-stacking", false, "Annotate nodes with their stacking order")
	cmd.Flags().Bool("no-pause", false, "Print the tree without waiting for Enter")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	noPause, _ := cmd.Flags().GetBool("no-pause")
	showStacking, _ := cmd.Flags().GetBool("show-stacking")

	render, err := s.Config.RenderOptions()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("show-stacking") {
		render.ShowStacking = showStacking
	}

	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	pause := cli.PauseBeforeTree(format, noPause, stdinTTY)

	return cli.RunSnapshot(cmd.Context(), s.Inspector, cmd.OutOrStdout(), cmd.InOrStdin(), cli.SnapshotOptions{
		Format:      format,
		Render:      render,
		Pause:       pause,
		Interactive: stdoutTTY,
	})
}

func init() {
	addSnapshotFlags(snapshotCmd)
	rootCmd.AddCommand(snapshotCmd)
}

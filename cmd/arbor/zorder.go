package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var zorderCmd = &cobra.Command{
	Use:   "zorder",
	Short: "List the objects with the highest stacking order",
	Long: `Builds the tree and ranks its nodes by stacking order (MDI z-order), highest
first. Nodes without a stacking order carry -1 and take part in the ranking
unless --applicable is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		top, _ := cmd.Flags().GetInt("top")
		applicable, _ := cmd.Flags().GetBool("applicable")
		return cli.RunZOrder(cmd.Context(), s.Inspector, cmd.OutOrStdout(), top, applicable)
	},
}

func init() {
	rootCmd.AddCommand(zorderCmd)
	zorderCmd.Flags().IntP("top", "n", 10, "Number of objects to list")
	zorderCmd.Flags().Bool("applicable", false, "Skip objects without a stacking order")
}

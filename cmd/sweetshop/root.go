package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd returns the command tree and a cleanup that releases what
// the chosen command opened. Cleanup must run even when the command fails.
func newRootCmd() (*cobra.Command, func()) {
	var (
		a         *app
		assumeYes bool
	)
	current := func() *app { return a }

	root := &cobra.Command{
		Use:           "sweetshop",
		Short:         "Admin console for the sweet shop",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(cmd.Context(), assumeYes)
			if err == nil {
				a.out = cmd.OutOrStdout()
			}
			return err
		},
	}
	root.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")

	root.AddCommand(
		newLoginCmd(current),
		newLogoutCmd(current),
		newWhoamiCmd(current),
		newDashboardCmd(current),
		newHealthCmd(current),
		newSweetsCmd(current),
		newCustomersCmd(current),
		newOrdersCmd(current),
	)
	return root, func() {
		if a != nil {
			a.close()
		}
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all progress of the current profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("this deletes every attempt and schedule of the profile; rerun with --yes to confirm")
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.eng.ResetProfile(cmd.Context(), s.cfg.Profile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset profile %q.\n", s.cfg.Profile)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}

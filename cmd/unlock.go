package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <module>",
	Short: "Mark a module and all of its prerequisites completed",
	Long: `Mark a module and every module it depends on as completed, skipping their
cards. Use it to jump past material you already know.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.profile(cmd)
		if err != nil {
			return err
		}
		transitions, err := s.eng.ForceUnlock(cmd.Context(), p.ID, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(transitions) == 0 {
			fmt.Fprintf(out, "%s and its prerequisites are already completed.\n", args[0])
			return nil
		}
		for _, t := range transitions {
			fmt.Fprintf(out, "%-18s  %s → %s\n", t.ModuleID, t.From, t.To)
		}
		return nil
	},
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage learner profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		profiles, err := s.eng.Profiles(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(profiles) == 0 {
			fmt.Fprintln(out, "No profiles yet.")
			return nil
		}
		fmt.Fprintf(out, "%-24s  %s\n", "Name", "Created")
		fmt.Fprintln(out, strings.Repeat("─", 45))
		for _, p := range profiles {
			marker := ""
			if p.Name == s.cfg.Profile {
				marker = "  *"
			}
			fmt.Fprintf(out, "%-24s  %s%s\n", p.Name, p.CreatedAt.Local().Format("2006-01-02 15:04"), marker)
		}
		return nil
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.eng.CreateProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created profile %q.\n", p.Name)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile and everything recorded for it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.eng.DeleteProfile(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q.\n", args[0])
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}

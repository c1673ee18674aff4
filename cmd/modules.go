package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Browse the module graph",
}

var modulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List modules in display order with their prerequisites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-18s  %-28s  %5s  %s\n", "ID", "Title", "Cards", "Requires")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, m := range cat.Modules() {
			title := m.Title
			if len(title) > 28 {
				title = title[:25] + "..."
			}
			fmt.Fprintf(out, "%-18s  %-28s  %5d  %s\n", m.ID, title, len(m.CardIDs()), strings.Join(m.Prerequisites, ", "))
		}
		fmt.Fprintf(out, "\n%d modules\n", len(cat.Modules()))
		return nil
	},
}

var modulesShowCmd = &cobra.Command{
	Use:   "show <module>",
	Short: "Show a module's lessons, commands and your progress in it",
	Args:  cobra.ExactArgs(1),
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
		st, err := s.eng.ModuleStatus(cmd.Context(), p.ID, args[0])
		if err != nil {
			return err
		}
		cat := s.eng.Catalog()
		m, _ := cat.Module(args[0])

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", m.Title, m.ID)
		if m.Description != "" {
			fmt.Fprintln(out, m.Description)
		}
		fmt.Fprintf(out, "\nState:    %s\n", st.State)
		fmt.Fprintf(out, "Version:  %d\n", m.ContentVersion)
		if len(m.Prerequisites) > 0 {
			fmt.Fprintf(out, "Requires: %s\n", strings.Join(m.Prerequisites, ", "))
		}
		if len(st.MissingPrerequisites) > 0 {
			fmt.Fprintf(out, "Missing:  %s\n", strings.Join(st.MissingPrerequisites, ", "))
		}
		if deps := cat.Dependents(m.ID); len(deps) > 0 {
			fmt.Fprintf(out, "Unlocks:  %s\n", strings.Join(deps, ", "))
		}

		fmt.Fprintf(out, "\n%-24s  %5s  %9s  %7s\n", "Lesson", "Cards", "Attempted", "Correct")
		fmt.Fprintln(out, strings.Repeat("─", 52))
		for _, l := range st.Lessons {
			fmt.Fprintf(out, "%-24s  %5d  %9d  %7d\n", l.Title, l.CardCount, l.Attempted, l.Correct)
		}

		fmt.Fprintf(out, "\n%-24s  %s\n", "Command", "Tested flags")
		fmt.Fprintln(out, strings.Repeat("─", 52))
		for _, ref := range cat.CommandReferences(m.ID) {
			home := ""
			if h, ok := cat.Home(ref.Command); ok && h != m.ID {
				home = "  (introduced in " + h + ")"
			}
			fmt.Fprintf(out, "%-24s  %s%s\n", ref.Command, strings.Join(ref.TestedFlags, " "), home)
		}
		return nil
	},
}

func init() {
	modulesCmd.AddCommand(modulesListCmd)
	modulesCmd.AddCommand(modulesShowCmd)
}

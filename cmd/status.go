package cmd

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/cmdtrainer/cmdtrainer/internal/progress"
	"github.com/cmdtrainer/cmdtrainer/internal/store"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/components"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show module progress and reviews due",
	Args:  cobra.NoArgs,
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
		return printStatus(cmd, s, p)
	},
}

func printStatus(cmd *cobra.Command, s *session, p store.Profile) error {
	ctx := cmd.Context()
	statuses, err := s.eng.ModuleStatuses(ctx, p.ID)
	if err != nil {
		return err
	}
	schedules, err := s.store.ListSchedules(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile: %s\n\n", p.Name)
	fmt.Fprintf(out, "%-18s  %-10s  %s\n", "Module", "State", "Correct")
	fmt.Fprintln(out, strings.Repeat("─", 64))

	completed := 0
	for _, st := range statuses {
		if st.State.IsCompleted() {
			completed++
		}
		bar := components.NewProgressBar("", st.CorrectCards, st.CardCount, true, 30)
		line := fmt.Sprintf("%-18s  %-10s  %s", st.ModuleID, st.State, bar.View())
		if st.State == progress.StateLocked {
			line += "  needs " + strings.Join(st.MissingPrerequisites, ", ")
		}
		lipgloss.Fprintln(out, line)
	}

	now := time.Now()
	due := 0
	for _, sc := range schedules {
		if _, ok := s.eng.Catalog().Card(sc.CardID); ok && sc.IsDue(now) {
			due++
		}
	}
	fmt.Fprintf(out, "\n%d of %d modules completed, %d reviews due\n", completed, len(statuses), due)
	return nil
}

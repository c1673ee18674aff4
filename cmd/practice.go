package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmdtrainer/cmdtrainer/internal/app"
	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/engine"
	"github.com/cmdtrainer/cmdtrainer/internal/screens/drill"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Review due cards from completed modules",
	Long: `Review cards from completed modules that are new to review or due.

When nothing is due, --ahead reviews the cards scheduled soonest instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		ahead, _ := cmd.Flags().GetBool("ahead")

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.profile(cmd)
		if err != nil {
			return err
		}

		q, err := s.eng.PracticeRound(cmd.Context(), p.ID, engine.PracticeOptions{Limit: limit, Ahead: ahead})
		if err != nil {
			return err
		}

		if len(q.Active) == 0 {
			out := cmd.OutOrStdout()
			if next, ok := q.NextDue(); ok {
				fmt.Fprintf(out, "Nothing is due. Next review %s.\n", next.Local().Format(time.DateTime))
				fmt.Fprintln(out, "Run with --ahead to review early.")
				return nil
			}
			fmt.Fprintln(out, "Nothing to practice yet. Complete a module first: cmdtrainer learn")
			return nil
		}

		cards := make([]catalog.Card, 0, len(q.Active))
		for _, it := range q.Active {
			cards = append(cards, it.Card)
		}
		opts := drill.Options{Title: "Practice", ProfileID: p.ID, Cards: cards}
		if q.Ahead {
			opts.Notice = "Nothing is due, reviewing ahead of schedule"
		}

		if !useTUI(cmd) {
			_, err := runPlainDrill(cmd, s.eng, opts)
			return err
		}
		return app.Run(cmd.Context(), drill.New(cmd.Context(), s.eng, opts), p.Name)
	},
}

func init() {
	practiceCmd.Flags().Int("limit", 0, "Maximum cards in this round (default from CMDTRAINER_PRACTICE_LIMIT or 30)")
	practiceCmd.Flags().Bool("ahead", false, "Review the soonest scheduled cards when nothing is due")
	practiceCmd.Flags().Bool("plain", false, "Read answers line by line instead of opening the terminal UI")
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdtrainer/cmdtrainer/internal/app"
	"github.com/cmdtrainer/cmdtrainer/internal/engine"
	"github.com/cmdtrainer/cmdtrainer/internal/screens/drill"
)

var learnCmd = &cobra.Command{
	Use:   "learn [module]",
	Short: "Work through the cards of a module",
	Long: `Work through every card of a module in lesson order.

Without a module id the module picker opens. A module completed before its
content changed presents only the cards added since.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runApp(cmd)
		}
		moduleID := args[0]

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.profile(cmd)
		if err != nil {
			return err
		}

		plan, err := s.eng.Learn(cmd.Context(), p.ID, moduleID)
		if errors.Is(err, engine.ErrModuleLocked) {
			return fmt.Errorf("%w\n\nComplete the prerequisites first, or run: cmdtrainer unlock %s", err, moduleID)
		}
		if err != nil {
			return err
		}

		opts := drill.Options{
			Title:     "Learn " + moduleID,
			ProfileID: p.ID,
			Cards:     plan.Cards,
		}
		if plan.CatchUp {
			opts.Notice = fmt.Sprintf("This module changed since you completed it: %d new cards", len(plan.Cards))
		}

		if !useTUI(cmd) {
			_, err := runPlainDrill(cmd, s.eng, opts)
			return err
		}
		return app.Run(cmd.Context(), drill.New(cmd.Context(), s.eng, opts), p.Name)
	},
}

func init() {
	learnCmd.Flags().Bool("plain", false, "Read answers line by line instead of opening the terminal UI")
}

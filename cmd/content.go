package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/content"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Work with module content files",
}

var contentCheckCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate module files and report every problem",
	Long: `Validate module files without touching the database. Checks the file
schema, unique ids, prerequisite cycles and command ownership rules.
Without a directory the configured content is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dir := cfg.ContentDir
		if len(args) == 1 {
			dir = args[0]
		}

		fsys, err := content.Open(dir)
		if err != nil {
			return err
		}
		cat, err := content.LoadCatalog(fsys)

		if err != nil {
			problems := []error{err}
			var ce *catalog.ContentError
			if errors.As(err, &ce) {
				problems = ce.Problems
			} else if joined, ok := err.(interface{ Unwrap() []error }); ok {
				problems = joined.Unwrap()
			}
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "  ✗ %v\n", p)
			}
			return fmt.Errorf("%d content problems found", len(problems))
		}

		cards := 0
		for _, m := range cat.Modules() {
			cards += len(m.CardIDs())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %d modules, %d cards, %d commands\n", len(cat.Modules()), cards, len(cat.Commands()))
		return nil
	},
}

func init() {
	contentCmd.AddCommand(contentCheckCmd)
}

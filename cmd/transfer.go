package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmdtrainer/cmdtrainer/internal/engine"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current profile's progress as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		data, sum, err := s.eng.Export(cmd.Context(), s.cfg.Profile)
		if err != nil {
			return err
		}

		if output == "" || output == "-" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %q to %s: %s\n", sum.ProfileName, output, describeRows(sum))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create a profile from an export file",
	Long: `Create a new profile from an export file. The profile takes the name stored
in the file unless --as is given. Files from older versions are upgraded on
the way in; files from a newer export format are rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		as, _ := cmd.Flags().GetString("as")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sum, err := s.eng.Import(cmd.Context(), data, as)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported profile %q: %s\n", sum.ProfileName, describeRows(sum))
		if sum.Skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d malformed or duplicate rows.\n", sum.Skipped)
		}
		return nil
	},
}

func describeRows(sum engine.TransferSummary) string {
	return fmt.Sprintf("%d modules, %d schedules, %d attempts", sum.ModuleRows, sum.ScheduleRows, sum.AttemptRows)
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "File to write instead of stdout")
	importCmd.Flags().String("as", "", "Name for the imported profile")
}

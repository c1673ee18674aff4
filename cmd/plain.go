package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/cmdtrainer/cmdtrainer/internal/engine"
	"github.com/cmdtrainer/cmdtrainer/internal/screens/drill"
	"github.com/cmdtrainer/cmdtrainer/internal/ui/components"
)

// runPlainDrill is the line-based drill used when the terminal UI is off.
// It reads one answer per line of any length; an empty line skips the card
// and end of input stops the round. Answers longer than the terminal prompt
// allows are cut to the same limit.
func runPlainDrill(cmd *cobra.Command, rec drill.Recorder, opts drill.Options) (engine.Round, error) {
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	var round engine.Round
	fmt.Fprintf(out, "%s: %d cards\n", opts.Title, len(opts.Cards))
	if opts.Notice != "" {
		fmt.Fprintln(out, opts.Notice)
	}
	fmt.Fprintln(out)

	for i, card := range opts.Cards {
		fmt.Fprintf(out, "── Card %d/%d ──\n", i+1, len(opts.Cards))
		fmt.Fprintln(out, card.Prompt)
		fmt.Fprint(out, "$ ")

		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return round, fmt.Errorf("read answers: %w", err)
		}
		if err != nil && line == "" {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		answer := truncateAnswer(strings.TrimSpace(line))
		if answer == "" {
			fmt.Fprintln(out, "(skipped)")
			fmt.Fprintln(out)
			continue
		}

		o, err := rec.RecordAnswer(cmd.Context(), opts.ProfileID, card.ID, answer)
		if err != nil {
			return round, fmt.Errorf("record answer: %w", err)
		}
		round.Record(o)

		if o.Result.Correct {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintf(out, "✗ Not quite: %s\n", o.Result.Reason)
			fmt.Fprintf(out, "Answer: %s\n", card.PrimaryAnswer())
		}
		if card.Explanation != "" {
			fmt.Fprintln(out, card.Explanation)
		}
		if o.Transition != nil {
			fmt.Fprintln(out, drill.DescribeTransition(*o.Transition))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", round.Correct, round.Answered)
	for _, c := range round.Missed {
		fmt.Fprintf(out, "  review: %s  →  %s\n", c.Prompt, c.PrimaryAnswer())
	}
	return round, nil
}

// truncateAnswer caps an answer at the length the terminal prompt accepts.
func truncateAnswer(s string) string {
	if utf8.RuneCountInString(s) <= components.MaxCommandLength {
		return s
	}
	return string([]rune(s)[:components.MaxCommandLength])
}

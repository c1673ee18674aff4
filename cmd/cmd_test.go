package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdtrainer/cmdtrainer/internal/ui/components"
)

const baseModule = `
id: base
title: Base
description: Getting around.
order: 1
content_version: 1
lessons:
  - id: nav
    title: Navigation
    cards:
      - id: b-pwd
        prompt: Print the working directory.
        answers: ["pwd"]
      - id: b-ls
        prompt: List everything in long format.
        answers: ["ls -la", "ls -al"]
        explanation: -a includes dotfiles.
`

const filesModule = `
id: files
title: Files
order: 2
prerequisites: [base]
lessons:
  - id: dirs
    title: Directories
    cards:
      - id: f-mkdir
        prompt: Create a/b including parents.
        answers: ["mkdir -p a/b"]
`

type env struct {
	db      string
	content string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "modules")
	require.NoError(t, os.Mkdir(contentDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "base.yaml"), []byte(baseModule), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "files.yaml"), []byte(filesModule), 0o644))

	for _, k := range []string{"CMDTRAINER_DB", "CMDTRAINER_CONTENT_DIR", "CMDTRAINER_PROFILE", "CMDTRAINER_PRACTICE_LIMIT"} {
		t.Setenv(k, "")
	}
	return env{db: filepath.Join(dir, "state", "cmdtrainer.db"), content: contentDir}
}

// resetFlags restores every flag to its default so runs do not leak into
// each other through the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with input on stdin and returns stdout and stderr.
func (e env) run(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--db", e.db, "--content", e.content}, args...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "cmdtrainer (devel)\n", out)
}

func TestLearn_PlainRound(t *testing.T) {
	e := newEnv(t)

	out, stderr, err := e.run(t, "pwd\nls -l\n", "learn", "base", "--plain")
	require.NoError(t, err)
	assert.Contains(t, stderr, `Created profile "default"`)
	assert.Contains(t, out, "Learn base: 2 cards")
	assert.Contains(t, out, "✓ Correct!")
	assert.Contains(t, out, "✗ Not quite")
	assert.Contains(t, out, "Answer: ls -la")
	assert.Contains(t, out, "Started module base")
	assert.Contains(t, out, "── Summary: 1/2 correct ──")
	assert.Contains(t, out, "review: List everything in long format.")

	out, _, err = e.run(t, "pwd\nls -al\n", "learn", "base", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Module base completed!")
	assert.Contains(t, out, "── Summary: 2/2 correct ──")

	out, _, err = e.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile: default")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "1 of 2 modules completed")
}

func TestLearn_SkipsBlankAndStopsAtEOF(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "\n", "learn", "base", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "(skipped)")
	assert.Contains(t, out, "(input closed)")
	assert.Contains(t, out, "── Summary: 0/0 correct ──")
}

func TestLearn_LongAnswerIsGraded(t *testing.T) {
	e := newEnv(t)

	long := "pwd " + strings.Repeat("a", 100_000)
	out, _, err := e.run(t, long+"\nls -la\n", "learn", "base", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ Not quite")
	assert.Contains(t, out, "── Summary: 1/2 correct ──")
}

func TestTruncateAnswer(t *testing.T) {
	assert.Equal(t, "ls -la", truncateAnswer("ls -la"))

	long := strings.Repeat("é", components.MaxCommandLength+10)
	got := truncateAnswer(long)
	assert.Equal(t, components.MaxCommandLength, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestLearn_LockedModule(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.run(t, "", "learn", "files", "--plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module is locked")
	assert.Contains(t, err.Error(), "cmdtrainer unlock files")

	out, _, err := e.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "needs base")
}

func TestUnlock(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "", "unlock", "files")
	require.NoError(t, err)
	assert.Contains(t, out, "base")
	assert.Contains(t, out, "files")
	assert.Contains(t, out, "→ completed")

	out, _, err = e.run(t, "", "unlock", "files")
	require.NoError(t, err)
	assert.Contains(t, out, "already completed")

	_, _, err = e.run(t, "", "unlock", "nope")
	assert.Error(t, err)
}

func TestPractice(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "", "practice", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to practice yet")

	_, _, err = e.run(t, "pwd\nls -la\n", "learn", "base", "--plain")
	require.NoError(t, err)

	out, _, err = e.run(t, "", "practice", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing is due. Next review")
	assert.Contains(t, out, "--ahead")

	out, _, err = e.run(t, "pwd\npwd\n", "practice", "--plain", "--ahead")
	require.NoError(t, err)
	assert.Contains(t, out, "Practice: 2 cards")
	assert.Contains(t, out, "reviewing ahead of schedule")
	assert.Contains(t, out, "── Summary: 1/2 correct ──")

	out, _, err = e.run(t, "pwd\n", "practice", "--plain", "--ahead", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Practice: 1 cards")
}

func TestProfiles(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "", "profile", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No profiles yet.")

	out, _, err = e.run(t, "", "profile", "create", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, `Created profile "alice".`)

	_, _, err = e.run(t, "", "profile", "create", "alice")
	assert.Error(t, err)

	out, _, err = e.run(t, "", "profile", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")

	out, _, err = e.run(t, "", "profile", "delete", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted profile "alice".`)

	_, _, err = e.run(t, "", "profile", "delete", "alice")
	assert.Error(t, err)
}

func TestExportImport(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "pwd\nls -la\n", "learn", "base", "--plain")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "progress.json")
	_, stderr, err := e.run(t, "", "export", "-o", file)
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 modules, 2 schedules, 2 attempts")

	out, _, err := e.run(t, "", "import", file, "--as", "copy")
	require.NoError(t, err)
	assert.Contains(t, out, `Imported profile "copy"`)

	out, _, err = e.run(t, "", "--profile", "copy", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile: copy")
	assert.Contains(t, out, "1 of 2 modules completed")

	_, _, err = e.run(t, "", "import", file, "--as", "copy")
	assert.Error(t, err)

	out, _, err = e.run(t, "", "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}

func TestReset(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "pwd\nls -la\n", "learn", "base", "--plain")
	require.NoError(t, err)

	_, _, err = e.run(t, "", "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, _, err := e.run(t, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, `Reset profile "default".`)

	out, _, err = e.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 2 modules completed")
}

func TestModules(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "", "modules", "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "base"), strings.Index(out, "files"))
	assert.Contains(t, out, "2 modules")

	out, _, err = e.run(t, "", "modules", "show", "base")
	require.NoError(t, err)
	assert.Contains(t, out, "Base (base)")
	assert.Contains(t, out, "Getting around.")
	assert.Contains(t, out, "Unlocks:  files")
	assert.Contains(t, out, "Navigation")
	assert.Contains(t, out, "pwd")
	assert.Contains(t, out, "ls")

	_, _, err = e.run(t, "", "modules", "show", "nope")
	assert.Error(t, err)
}

func TestContentCheck(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "", "content", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 modules, 3 cards")

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "a.yaml"), []byte(baseModule), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "b.yaml"), []byte(baseModule), 0o644))
	out, _, err = e.run(t, "", "content", "check", bad)
	require.Error(t, err)
	assert.Contains(t, out, "✗")
	assert.Contains(t, err.Error(), "content problems found")
}

func TestRoot_PrintsStatusWithoutTerminal(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 2 modules completed")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/cmdtrainer/cmdtrainer/internal/app"
	"github.com/cmdtrainer/cmdtrainer/internal/catalog"
	"github.com/cmdtrainer/cmdtrainer/internal/config"
	"github.com/cmdtrainer/cmdtrainer/internal/content"
	"github.com/cmdtrainer/cmdtrainer/internal/engine"
	"github.com/cmdtrainer/cmdtrainer/internal/screens/modules"
	"github.com/cmdtrainer/cmdtrainer/internal/store"
)

// session is what a command needs to work with learning state: settings,
// the open store and an engine over the loaded content.
type session struct {
	cfg   config.Config
	store *store.Store
	eng   *engine.Engine
}

// openSession loads content, opens the database and builds the engine.
// Callers must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	eng := engine.New(cat, st, engine.Options{
		AppVersion:    version,
		Warnings:      cmd.ErrOrStderr(),
		PracticeLimit: cfg.PracticeLimit,
	})
	return &session{cfg: cfg, store: st, eng: eng}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// profile returns the configured profile, creating it on first use.
func (s *session) profile(cmd *cobra.Command) (store.Profile, error) {
	p, created, err := s.eng.EnsureProfile(cmd.Context(), s.cfg.Profile)
	if err != nil {
		return store.Profile{}, err
	}
	if created {
		fmt.Fprintf(cmd.ErrOrStderr(), "Created profile %q.\n", p.Name)
	}
	return p, nil
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	fsys, err := content.Open(cfg.ContentDir)
	if err != nil {
		return nil, err
	}
	cat, err := content.LoadCatalog(fsys)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return cat, nil
}

// useTUI reports whether the full-screen interface should run: both ends
// must be terminals and --plain must not be set.
func useTUI(cmd *cobra.Command) bool {
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		return false
	}
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(in.Fd()) && term.IsTerminal(out.Fd())
}

// runApp launches the module picker for the configured profile.
func runApp(cmd *cobra.Command) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.profile(cmd)
	if err != nil {
		return err
	}
	if !useTUI(cmd) {
		return printStatus(cmd, s, p)
	}

	ctx := cmd.Context()
	return app.Run(ctx, modules.New(ctx, s.eng, p.ID), p.Name)
}

package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atomicstack/satisfying-background/internal/backend"
	"github.com/atomicstack/satisfying-background/internal/chooser"
	"github.com/atomicstack/satisfying-background/internal/content"
	"github.com/atomicstack/satisfying-background/internal/data/dispatcher"
	"github.com/atomicstack/satisfying-background/internal/extension"
	"github.com/atomicstack/satisfying-background/internal/host"
	"github.com/atomicstack/satisfying-background/internal/logging"
	"github.com/atomicstack/satisfying-background/internal/logging/events"
	"github.com/atomicstack/satisfying-background/internal/panel"
	"github.com/atomicstack/satisfying-background/internal/state"
	"github.com/atomicstack/satisfying-background/internal/store"
	"github.com/atomicstack/satisfying-background/internal/tmux"
	"github.com/atomicstack/satisfying-background/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const watchInterval = 500 * time.Millisecond

// Config describes user-provided application options.
type Config struct {
	ContentRoot string
	CatalogPath string
	StateDB     string
	Restore     bool
	SocketPath  string
	Width       int
	Height      int
	ShowFooter  bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	program := tea.NewProgram(s.model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// session holds everything one run of the application owns.
type session struct {
	store   *store.Store
	host    *host.Local
	ext     *extension.Context
	ctrl    *panel.Controller
	watcher *backend.Watcher
	model   *ui.Model
}

func newSession(cfg Config) (*session, error) {
	statePath, err := resolveStatePath(cfg.StateDB)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(statePath)
	if err != nil {
		return nil, fmt.Errorf("open panel store: %w", err)
	}
	s := &session{store: st}
	if err := s.start(cfg); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) start(cfg Config) error {
	source := content.Embedded()
	if cfg.ContentRoot != "" {
		dir, err := content.NewDir(cfg.ContentRoot)
		if err != nil {
			return err
		}
		source = dir
	}
	catalog, err := chooser.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	doc, err := chooser.Render(panel.Title, catalog)
	if err != nil {
		return fmt.Errorf("render chooser: %w", err)
	}

	s.host = host.NewLocal(host.WithStore(s.store))
	s.ext = &extension.Context{
		ResourceRoot:  source.Root(),
		Source:        source,
		Chooser:       doc,
		KnownKeys:     catalog.Keys(),
		Subscriptions: &host.Disposables{},
	}
	s.ext.Subscriptions.Push(s.host.RegisterProgram(chooser.ProgramName, chooser.NewProgram))
	s.ctrl = extension.Activate(s.host, s.ext)

	if pane := tmux.CurrentPane(); pane != "" {
		socket, err := tmux.ResolveSocketPath(cfg.SocketPath)
		if err != nil {
			logging.Error(fmt.Errorf("resolve socket path: %w", err))
		} else {
			s.host.SetRevealHook(revealInPane(socket, pane))
		}
	}

	if cfg.Restore {
		n, err := s.host.Restore()
		if err != nil {
			logging.Error(fmt.Errorf("restore panels: %w", err))
		}
		events.App.Restored(n)
	}
	if s.host.Active() == nil {
		if err := s.host.ExecuteCommand(extension.ShowCommand); err != nil {
			return fmt.Errorf("show background: %w", err)
		}
	}

	if cfg.ContentRoot != "" {
		w, err := backend.NewWatcher(cfg.ContentRoot, watchInterval)
		if err != nil {
			logging.Error(fmt.Errorf("watch content root: %w", err))
		} else {
			s.watcher = w
		}
	}

	availability := state.NewAvailabilityStore()
	s.model = ui.NewModel(ui.Config{
		Host:         s.host,
		ShowCommand:  extension.ShowCommand,
		Watcher:      s.watcher,
		Dispatcher:   dispatcher.New(availability, source.Exists, catalog.Keys()),
		Availability: availability,
		Width:        cfg.Width,
		Height:       cfg.Height,
		ShowFooter:   cfg.ShowFooter,
	})
	return nil
}

// close tears the session down. Open panels keep their stored records so the
// next run can restore them.
func (s *session) close() {
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher.Wait()
	}
	if s.ctrl != nil {
		s.ctrl.Reset()
	}
	extension.Deactivate(s.ext)
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logging.Error(fmt.Errorf("close panel store: %w", err))
		}
	}
	events.App.Stop()
}

func revealInPane(socket, pane string) func(host.Panel) {
	return func(p host.Panel) {
		err := tmux.Focus(socket, pane, p.Title())
		events.UI.Focus(pane, err)
		if err != nil {
			logging.Error(err)
		}
	}
}

// resolveStatePath maps the --state-db value to a database path. Empty means
// $XDG_STATE_HOME/satisfying-background/panels.db (~/.local/state by default).
func resolveStatePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate state dir: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "satisfying-background", "panels.db"), nil
}

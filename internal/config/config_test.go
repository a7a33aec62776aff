package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/satisfying-background/internal/app"
	"github.com/google/go-cmp/cmp"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := app.Config{Restore: true}
	if diff := cmp.Diff(want, cfg.App); diff != "" {
		t.Fatalf("unexpected defaults (-want +got):\n%s", diff)
	}
	if cfg.Logging.Trace || cfg.Logging.FilePath != "" {
		t.Fatalf("unexpected logging defaults %#v", cfg.Logging)
	}
}

func TestLoadArgsEnvironmentFallbacks(t *testing.T) {
	environ := []string{
		"SATISFYING_BACKGROUND_CONTENT_ROOT=/srv/media",
		"SATISFYING_BACKGROUND_CATALOG=/etc/catalog.yaml",
		"SATISFYING_BACKGROUND_STATE_DB=:memory:",
		"SATISFYING_BACKGROUND_RESTORE=false",
		"SATISFYING_BACKGROUND_SOCKET=/tmp/tmux.sock",
		"SATISFYING_BACKGROUND_WIDTH=100",
		"SATISFYING_BACKGROUND_HEIGHT=not-a-number",
		"SATISFYING_BACKGROUND_FOOTER=true",
		"SATISFYING_BACKGROUND_TRACE=1",
		"SATISFYING_BACKGROUND_LOG_FILE=/tmp/bg.log",
		"MALFORMED",
	}
	cfg, err := LoadArgs(nil, environ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := app.Config{
		ContentRoot: "/srv/media",
		CatalogPath: "/etc/catalog.yaml",
		StateDB:     ":memory:",
		Restore:     false,
		SocketPath:  "/tmp/tmux.sock",
		Width:       100,
		ShowFooter:  true,
	}
	if diff := cmp.Diff(want, cfg.App); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
	if !cfg.Logging.Trace || cfg.Logging.FilePath != "/tmp/bg.log" {
		t.Fatalf("unexpected logging %#v", cfg.Logging)
	}
}

func TestLoadArgsFlagsOverrideEnvironment(t *testing.T) {
	args := []string{"--content-root", "/flag/media", "--restore=true", "--width", "60"}
	cfg, err := LoadArgs(args, []string{
		"SATISFYING_BACKGROUND_CONTENT_ROOT=/env/media",
		"SATISFYING_BACKGROUND_RESTORE=false",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.ContentRoot != "/flag/media" || !cfg.App.Restore || cfg.App.Width != 60 {
		t.Fatalf("expected flags to win, got %#v", cfg.App)
	}
	if cfg.Flags["contentRoot"] != "/flag/media" || cfg.Flags["width"] != "60" {
		t.Fatalf("unexpected flag map %#v", cfg.Flags)
	}
	if diff := cmp.Diff(args, cfg.Args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}
}

func TestLoadArgsRejectsNegativeSizes(t *testing.T) {
	for _, args := range [][]string{{"--width", "-1"}, {"--height", "-5"}} {
		if _, err := LoadArgs(args, nil); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
	if _, err := LoadArgs([]string{"--unknown"}, nil); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(file, []byte("backgrounds: []\n"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	tests := []struct {
		name    string
		cfg     app.Config
		wantErr bool
	}{
		{name: "empty", cfg: app.Config{}},
		{name: "directory root", cfg: app.Config{ContentRoot: dir, CatalogPath: file}},
		{name: "file as root", cfg: app.Config{ContentRoot: file}, wantErr: true},
		{name: "missing root", cfg: app.Config{ContentRoot: filepath.Join(dir, "nope")}, wantErr: true},
		{name: "directory as catalog", cfg: app.Config{CatalogPath: dir}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(Config{App: tc.cfg})
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	err := Validate(Config{App: app.Config{ContentRoot: filepath.Join(dir, "nope")}})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

package tmux

import (
	"errors"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeClient struct {
	calls      []string
	windowName string
	displayErr error
	selectErr  error
	paneErr    error
	closed     bool
}

type fakeCommand struct {
	fake *fakeClient
	args []string
}

func (c fakeCommand) Run() error {
	c.fake.calls = append(c.fake.calls, strings.Join(c.args, " "))
	for _, arg := range c.args {
		if arg == "select-pane" {
			return c.fake.paneErr
		}
	}
	return nil
}

func (f *fakeClient) SelectWindow(target string) error {
	f.calls = append(f.calls, "select-window "+target)
	return f.selectErr
}

func (f *fakeClient) DisplayMessage(target, format string) (string, error) {
	f.calls = append(f.calls, "display-message "+target+" "+format)
	return f.windowName, f.displayErr
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func withStubTmux(t *testing.T, fake *fakeClient, connectErr error) *string {
	t.Helper()
	prev := newTmux
	var socket string
	newTmux = func(socketPath string) (tmuxClient, error) {
		socket = socketPath
		if connectErr != nil {
			return nil, connectErr
		}
		return fake, nil
	}
	prevExec := runExecCommand
	runExecCommand = func(name string, args ...string) commander {
		return fakeCommand{fake: fake, args: append([]string{name}, args...)}
	}
	t.Cleanup(func() {
		newTmux = prev
		runExecCommand = prevExec
	})
	return &socket
}

func TestFocusSelectsWindowPaneAndTitle(t *testing.T) {
	fake := &fakeClient{windowName: "work:3\n"}
	socket := withStubTmux(t, fake, nil)

	if err := Focus("/tmp/sock", "%7", "Satisfying Background"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"display-message %7 #{session_name}:#{window_index}",
		"select-window work:3",
		"tmux -S /tmp/sock select-pane -t %7 -T Satisfying Background",
	}
	if diff := cmp.Diff(want, fake.calls); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
	if *socket != "/tmp/sock" {
		t.Fatalf("expected socket /tmp/sock, got %q", *socket)
	}
	if !fake.closed {
		t.Fatal("expected client closed")
	}
}

func TestFocusWithoutTitleKeepsPaneTitle(t *testing.T) {
	fake := &fakeClient{windowName: "work:1"}
	withStubTmux(t, fake, nil)
	if err := Focus("", "%1", "  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"display-message %1 #{session_name}:#{window_index}",
		"select-window work:1",
		"tmux select-pane -t %1",
	}
	if diff := cmp.Diff(want, fake.calls); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
}

func TestFocusErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name       string
		pane       string
		fake       *fakeClient
		connectErr error
	}{
		{name: "missing pane", pane: " ", fake: &fakeClient{}},
		{name: "connect", pane: "%1", fake: &fakeClient{}, connectErr: boom},
		{name: "display", pane: "%1", fake: &fakeClient{displayErr: boom}},
		{name: "select window", pane: "%1", fake: &fakeClient{windowName: "s:1", selectErr: boom}},
		{name: "select pane", pane: "%1", fake: &fakeClient{windowName: "s:1", paneErr: boom}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			withStubTmux(t, tc.fake, tc.connectErr)
			err := Focus("", tc.pane, "title")
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.connectErr != nil && !errors.Is(err, boom) {
				t.Fatalf("expected wrapped connect error, got %v", err)
			}
		})
	}
}

func TestCurrentPane(t *testing.T) {
	t.Setenv("TMUX_PANE", " %4 ")
	if got := CurrentPane(); got != "%4" {
		t.Fatalf("expected %%4, got %q", got)
	}
	t.Setenv("TMUX_PANE", "")
	if got := CurrentPane(); got != "" {
		t.Fatalf("expected empty pane, got %q", got)
	}
}

func TestResolveSocketPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		got, err := ResolveSocketPath("/tmp/flag")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "/tmp/flag" {
			t.Fatalf("expected /tmp/flag, got %q", got)
		}
	})
	t.Run("env overrides", func(t *testing.T) {
		t.Setenv(SocketEnv, "/tmp/env")
		got, err := ResolveSocketPath("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "/tmp/env" {
			t.Fatalf("expected /tmp/env, got %q", got)
		}
	})
	t.Run("tmux env fallback", func(t *testing.T) {
		t.Setenv(SocketEnv, "")
		t.Setenv("TMUX", "/tmp/socket,123,0")
		got, err := ResolveSocketPath("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "/tmp/socket" {
			t.Fatalf("expected /tmp/socket, got %q", got)
		}
	})
	t.Run("default path", func(t *testing.T) {
		t.Setenv(SocketEnv, "")
		t.Setenv("TMUX", "")
		t.Setenv("TMUX_TMPDIR", "/tmp")
		u, _ := user.Current()
		got, err := ResolveSocketPath("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := filepath.Join("/tmp", "tmux-"+u.Uid, "default")
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

package tmux

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// SocketEnv overrides the socket path when no flag is given.
const SocketEnv = "SATISFYING_BACKGROUND_SOCKET"

type tmuxClient interface {
	SelectWindow(target string) error
	DisplayMessage(target, format string) (string, error)
	Close() error
}

type commander interface {
	Run() error
}

var (
	newTmux = func(socketPath string) (tmuxClient, error) {
		if socketPath != "" {
			return gotmux.NewTmux(socketPath)
		}
		return gotmux.DefaultTmux()
	}

	runExecCommand = func(name string, args ...string) commander {
		return exec.Command(name, args...)
	}
)

func baseArgs(socketPath string) []string {
	if strings.TrimSpace(socketPath) == "" {
		return []string{}
	}
	return []string{"-S", socketPath}
}

// ResolveSocketPath picks the tmux server socket: the flag, then SocketEnv,
// then the server named in $TMUX, then tmux's default location.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv(SocketEnv); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

// CurrentPane returns the pane this process runs in, or "" outside tmux.
func CurrentPane() string {
	return strings.TrimSpace(os.Getenv("TMUX_PANE"))
}

// Focus brings paneID to the front: its window is selected, then the pane.
// When title is set it also becomes the pane title.
func Focus(socketPath, paneID, title string) error {
	paneID = strings.TrimSpace(paneID)
	if paneID == "" {
		return fmt.Errorf("pane target required")
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return fmt.Errorf("connect to tmux: %w", err)
	}
	defer client.Close()

	window, err := client.DisplayMessage(paneID, "#{session_name}:#{window_index}")
	if err != nil {
		return fmt.Errorf("resolve window of %s: %w", paneID, err)
	}
	if window = strings.TrimSpace(window); window != "" {
		if err := client.SelectWindow(window); err != nil {
			return fmt.Errorf("select window %s: %w", window, err)
		}
	}
	args := append(baseArgs(socketPath), "select-pane", "-t", paneID)
	if title = strings.TrimSpace(title); title != "" {
		args = append(args, "-T", title)
	}
	if err := runExecCommand("tmux", args...).Run(); err != nil {
		return fmt.Errorf("select pane %s: %w", paneID, err)
	}
	return nil
}

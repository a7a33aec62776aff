// Package ui contains the Bubble Tea program that renders the host's active
// panel in the terminal.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Each tea.Msg is
//     routed through a typed handler registry so key presses, resizes, mouse
//     wheel events, and backend updates are handled by focused functions.
//   - Key handlers drive the host: enter clicks the button under the cursor,
//     ctrl+r reloads the panel's program, ctrl+o runs the show command, and esc
//     closes the panel. The host delivers any messages those steps queue
//     before the handler returns.
//   - After every message the model re-reads the host's active panel and
//     parses its document again when the markup changed.
//
// State ownership:
//   - Button list state lives in internal/ui/state.Level, which tracks items,
//     filtering, and viewport calculations.
//   - Content availability is held in internal/state and kept current by the
//     dispatcher whenever the backend watcher reports a change under the
//     content root.
package ui

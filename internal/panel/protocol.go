package panel

import (
	"encoding/json"
	"strings"

	"github.com/atomicstack/satisfying-background/internal/host"
)

// Selection is the only message the embedded UI sends: a request to display
// the background named by Command.
type Selection struct {
	Command string `json:"command"`
}

// ParseSelection extracts the requested key. Anything that is not an object
// carrying a non-empty string command is rejected.
func ParseSelection(msg host.Message) (string, bool) {
	var sel Selection
	if err := json.Unmarshal(msg, &sel); err != nil {
		return "", false
	}
	if strings.TrimSpace(sel.Command) == "" {
		return "", false
	}
	return sel.Command, true
}

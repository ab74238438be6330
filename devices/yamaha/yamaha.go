// Package yamaha holds quirks of Yamaha consoles that speak RCP.
package yamaha

import (
	"strings"

	"github.com/jdginn/rcposc/translate"
)

const (
	// DefaultPort is the console's RCP TCP port.
	DefaultPort = 49280

	SceneCurrentNotify = "sscurrent_ex"
	SceneInfoCommand   = "ssinfo_ex"
)

// followUps maps a NOTIFY path to the command that fetches what the
// notification leaves out. The console reports a scene recall with
// sscurrent_ex but not the scene's title or comment; ssinfo_ex returns both.
var followUps = map[string]string{
	SceneCurrentNotify: SceneInfoCommand,
}

// FollowUp returns the command to send back to the console after it sent the
// given tokens, if any. The command reuses every token after the path.
func FollowUp(tokens []string) (string, bool) {
	if len(tokens) < 2 || tokens[0] != translate.VerbNotify {
		return "", false
	}
	cmd, ok := followUps[tokens[1]]
	if !ok {
		return "", false
	}
	if len(tokens) == 2 {
		return cmd, true
	}
	return cmd + " " + strings.Join(tokens[2:], " "), true
}

package devices

import (
	"strings"
	"sync"

	"github.com/jdginn/rcposc/translate"
)

// Handler receives a message along with the segments captured by "@" in the
// pattern it was registered under.
type Handler func(msg translate.Message, captures []string)

type namedHandler struct {
	name    string
	handler Handler
}

// Dispatcher routes OSC messages that the bridge consumes itself instead of
// forwarding to the console.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []namedHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: []namedHandler{}}
}

func (d *Dispatcher) AddMsgHandler(pattern string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, namedHandler{pattern, handler})
}

// Dispatch runs every handler whose pattern matches msg, in registration
// order, and reports whether any did.
func (d *Dispatcher) Dispatch(msg translate.Message) bool {
	d.mu.RLock()
	handlers := d.handlers
	d.mu.RUnlock()

	handled := false
	for _, h := range handlers {
		if match, captures := MatchAddr(h.name, msg.Address); match {
			h.handler(msg, captures)
			handled = true
		}
	}
	return handled
}

// MatchAddr checks if messageAddr matches the path pattern.
// Each "@" in path acts as a wildcard for a segment, and captured segments are returned.
// If path ends with "*", any additional segments in messageAddr are ignored.
// "*" does not capture anything.
func MatchAddr(path, messageAddr string) (bool, []string) {
	pathSegs := strings.Split(path, "/")
	addrSegs := strings.Split(messageAddr, "/")

	endsWithStar := len(pathSegs) > 0 && pathSegs[len(pathSegs)-1] == "*"
	matchLen := len(pathSegs)
	if endsWithStar {
		matchLen--
		if len(addrSegs) < matchLen {
			return false, nil
		}
	} else if len(pathSegs) != len(addrSegs) {
		return false, nil
	}

	var captures []string
	for i := 0; i < matchLen; i++ {
		p := pathSegs[i]
		if p == "@" {
			captures = append(captures, addrSegs[i])
		} else if p != addrSegs[i] {
			return false, nil
		}
	}
	return true, captures
}

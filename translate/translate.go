// Package translate converts between RCP lines and OSC messages.
//
//	NOTIFY <type> <name> <args...>  ->  /<type>/<name> <args...>
//	OK     <type> <name> <args...>  ->  /<type>/<name> <args...>
//	ERROR  <args...>                ->  /error <args...>
//
// In the other direction /<head>/<tail...> <args...> becomes the command
// "<head> <tail joined with /> <args...>".
package translate

import (
	"fmt"
	"strings"

	"github.com/jdginn/rcposc/rcp"
)

const (
	VerbNotify = "NOTIFY"
	VerbOK     = "OK"
	VerbError  = "ERROR"

	ErrorAddress = "/error"
)

// Message is an OSC message stripped of its wire encoding.
type Message struct {
	Address string
	Args    []rcp.Value
}

func (m Message) String() string {
	parts := make([]string, 0, len(m.Args)+1)
	parts = append(parts, m.Address)
	for _, a := range m.Args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// ToOSC translates one line received from the console.
func ToOSC(line string) (Message, error) {
	return TokensToOSC(rcp.Split(strings.TrimSpace(line)), line)
}

// TokensToOSC is ToOSC for a line that has already been split. raw is only
// used to annotate errors.
func TokensToOSC(tokens []string, raw string) (Message, error) {
	if len(tokens) == 0 {
		return Message{}, rcp.Errorf(rcp.InvalidAddress, raw, "empty line")
	}

	switch tokens[0] {
	case VerbNotify, VerbOK:
		if len(tokens) < 3 {
			return Message{}, rcp.Errorf(rcp.InvalidAddress, raw, "%s needs a type and a name, got %d tokens", tokens[0], len(tokens)-1)
		}
		return Message{
			Address: "/" + tokens[1] + "/" + tokens[2],
			Args:    inferAll(tokens[3:]),
		}, nil
	case VerbError:
		return Message{
			Address: ErrorAddress,
			Args:    inferAll(tokens[1:]),
		}, nil
	default:
		return Message{}, rcp.Errorf(rcp.UnsupportedVerb, raw, "unsupported message type %q", tokens[0])
	}
}

func inferAll(tokens []string) []rcp.Value {
	args := make([]rcp.Value, len(tokens))
	for i, tok := range tokens {
		args[i] = rcp.Infer(tok)
	}
	return args
}

// ToRCP translates an OSC message into a command line for the console, without
// the trailing newline. If any argument cannot be rendered nothing is returned.
func ToRCP(msg Message) (string, error) {
	segs := Segments(msg.Address)
	if len(segs) == 0 {
		return "", rcp.Errorf(rcp.InvalidAddress, msg.Address, "address has no segments")
	}

	parts := make([]string, 0, len(msg.Args)+2)
	parts = append(parts, segs[0])
	if tail := strings.Join(segs[1:], "/"); tail != "" {
		parts = append(parts, tail)
	}
	for i, arg := range msg.Args {
		tok, err := rcp.Render(arg)
		if err != nil {
			return "", rcp.Wrap(rcp.UnsupportedArgumentType, msg.Address, fmt.Errorf("argument %d: %w", i, err))
		}
		parts = append(parts, tok)
	}
	return strings.Join(parts, " "), nil
}

// Segments splits an OSC address on "/" and drops empty segments.
func Segments(addr string) []string {
	var segs []string
	for _, s := range strings.Split(addr, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

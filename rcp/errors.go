package rcp

import (
	"errors"
	"fmt"
)

// Kind classifies why a message could not be carried across the bridge.
type Kind int

const (
	KindUnknown Kind = iota
	UnsupportedVerb
	InvalidAddress
	UnsupportedArgumentType
	Decode
	Io
)

func (k Kind) String() string {
	switch k {
	case UnsupportedVerb:
		return "unsupported_verb"
	case InvalidAddress:
		return "invalid_address"
	case UnsupportedArgumentType:
		return "unsupported_argument_type"
	case Decode:
		return "decode"
	case Io:
		return "io"
	default:
		return "unknown"
	}
}

// ErrPeerClosed is returned by ReadLines when the console closes the connection.
var ErrPeerClosed = errors.New("rcp: connection closed by peer")

// Error carries a Kind along with the raw input that caused it.
type Error struct {
	Kind  Kind
	Input string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Input != "" {
		msg = fmt.Sprintf("%s (input %q)", msg, e.Input)
	}
	return "rcp: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, input string, format string, args ...any) *Error {
	return &Error{Kind: kind, Input: input, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind to err. A nil err stays nil.
func Wrap(kind Kind, input string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Input: input, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

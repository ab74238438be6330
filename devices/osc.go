// Package devices adapts the two ends of the bridge: OSC peers, spoken to through
// go-osc, and the console itself (see the yamaha subpackage).
package devices

import (
	"errors"
	"fmt"

	"github.com/hypebeast/go-osc/osc"

	"github.com/jdginn/rcposc/rcp"
	"github.com/jdginn/rcposc/translate"
)

// ErrBundle is returned by Decode for packets that are bundles rather than a
// single message. Bundles are not forwarded.
var ErrBundle = errors.New("devices: osc bundles are not supported")

// Encode marshals msg into a single OSC message packet.
func Encode(msg translate.Message) ([]byte, error) {
	m, err := ToOscMessage(msg)
	if err != nil {
		return nil, err
	}
	b, err := m.MarshalBinary()
	if err != nil {
		return nil, rcp.Wrap(rcp.Decode, msg.Address, err)
	}
	return b, nil
}

// Decode parses one datagram. Bundles come back as ErrBundle with kind Decode.
func Decode(b []byte) (translate.Message, error) {
	if len(b) == 0 {
		return translate.Message{}, rcp.Errorf(rcp.Decode, "", "empty packet")
	}
	packet, err := osc.ParsePacket(string(b))
	if err != nil {
		return translate.Message{}, rcp.Wrap(rcp.Decode, "", err)
	}

	switch p := packet.(type) {
	case *osc.Message:
		return FromOscMessage(p)
	case *osc.Bundle:
		return translate.Message{}, rcp.Wrap(rcp.Decode, "", ErrBundle)
	default:
		return translate.Message{}, rcp.Errorf(rcp.Decode, "", "unexpected packet type %T", packet)
	}
}

// ToOscMessage builds the go-osc representation of msg.
func ToOscMessage(msg translate.Message) (*osc.Message, error) {
	m := osc.NewMessage(msg.Address)
	for i, v := range msg.Args {
		switch v.Type() {
		case rcp.TypeInt:
			n, _ := v.AsInt()
			m.Append(n)
		case rcp.TypeFloat:
			f, _ := v.AsFloat()
			m.Append(f)
		case rcp.TypeText:
			s, _ := v.AsText()
			m.Append(s)
		default:
			return nil, rcp.Errorf(rcp.UnsupportedArgumentType, msg.Address, "argument %d has type %s", i, v.Type())
		}
	}
	return m, nil
}

// FromOscMessage converts a decoded go-osc message. Only int32, float32 and
// string arguments have an RCP form; anything else (bools, blobs, nil, 64-bit
// numbers, timetags) rejects the whole message.
func FromOscMessage(m *osc.Message) (translate.Message, error) {
	args := make([]rcp.Value, 0, len(m.Arguments))
	for i, arg := range m.Arguments {
		switch a := arg.(type) {
		case int32:
			args = append(args, rcp.Int(a))
		case float32:
			args = append(args, rcp.Float(a))
		case string:
			args = append(args, rcp.Text(a))
		default:
			return translate.Message{}, rcp.Wrap(rcp.UnsupportedArgumentType, m.Address,
				fmt.Errorf("argument %d has unsupported osc type %T", i, arg))
		}
	}
	return translate.Message{Address: m.Address, Args: args}, nil
}

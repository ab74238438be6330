package devices_test

import (
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/rcposc/devices"
	"github.com/jdginn/rcposc/rcp"
	"github.com/jdginn/rcposc/translate"
)

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		msg  translate.Message
	}{
		{"no args", translate.Message{Address: "/scene/current", Args: []rcp.Value{}}},
		{"int", translate.Message{Address: "/scene/current", Args: []rcp.Value{rcp.Int(1)}}},
		{"mixed", translate.Message{Address: "/scene/name", Args: []rcp.Value{rcp.Int(1), rcp.Float(0.5), rcp.Text(`"Test Scene"`)}}},
		{"error", translate.Message{Address: "/error", Args: []rcp.Value{rcp.Text("UnknownCommand")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := devices.Encode(tt.msg)
			require.NoError(t, err)
			assert.Zero(t, len(b)%4, "osc packets are 4-byte aligned")

			got, err := devices.Decode(b)
			require.NoError(t, err)
			assert.Equal(t, tt.msg, got)
		})
	}
}

func TestEncodeRejectsInvalidValue(t *testing.T) {
	_, err := devices.Encode(translate.Message{Address: "/a/b", Args: []rcp.Value{{}}})
	require.Error(t, err)
	assert.True(t, rcp.IsKind(err, rcp.UnsupportedArgumentType))
}

func TestDecodeBundle(t *testing.T) {
	bundle := osc.NewBundle(time.Now())
	require.NoError(t, bundle.Append(osc.NewMessage("/scene/current", int32(1))))
	b, err := bundle.MarshalBinary()
	require.NoError(t, err)

	_, err = devices.Decode(b)
	assert.ErrorIs(t, err, devices.ErrBundle)
	assert.True(t, rcp.IsKind(err, rcp.Decode))
}

func TestDecodeGarbage(t *testing.T) {
	for _, b := range [][]byte{nil, []byte("not osc"), {0x00, 0x01}} {
		_, err := devices.Decode(b)
		require.Error(t, err)
		assert.True(t, rcp.IsKind(err, rcp.Decode), "%q", b)
	}
}

func TestDecodeUnsupportedArgument(t *testing.T) {
	tests := []struct {
		name string
		arg  interface{}
	}{
		{"bool", true},
		{"nil", nil},
		{"int64", int64(42)},
		{"float64", float64(1.5)},
		{"blob", []byte{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := osc.NewMessage("/scene/current", int32(1), tt.arg).MarshalBinary()
			require.NoError(t, err)

			_, err = devices.Decode(b)
			require.Error(t, err)
			assert.True(t, rcp.IsKind(err, rcp.UnsupportedArgumentType))
		})
	}
}

func TestFromOscMessagePreservesOrder(t *testing.T) {
	msg, err := devices.FromOscMessage(osc.NewMessage("/x/y", "a", int32(2), float32(3.5), "d"))
	require.NoError(t, err)
	assert.Equal(t, []rcp.Value{rcp.Text("a"), rcp.Int(2), rcp.Float(3.5), rcp.Text("d")}, msg.Args)
}

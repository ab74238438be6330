package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jdginn/rcposc/rcp"
	"github.com/jdginn/rcposc/translate"
)

func TestMatchAddr(t *testing.T) {
	tests := []struct {
		path           string
		addr           string
		expectMatch    bool
		expectCaptures []string
	}{
		{"/meta/logging/@/level", "/meta/logging/osc_in/level", true, []string{"osc_in"}},
		{"/meta/logging/@/level", "/meta/logging/osc_in", false, nil},
		{"/meta/logging/@/level", "/meta/logging/osc_in/level/extra", false, nil},
		{"/meta/logging/@/level", "/scene/logging/osc_in/level", false, nil},
		{"/scene/@/@", "/scene/current/x", true, []string{"current", "x"}},
		{"/scene/current", "/scene/current", true, nil},

		{"/meta/*", "/meta", true, nil},
		{"/meta/*", "/meta/logging/app/level", true, nil},
		{"/meta/@/*", "/meta/logging/app", true, []string{"logging"}},
		{"/meta/@/*", "/scene", false, nil},
		{"/meta/*", "/metadata/x", false, nil},
	}

	for _, tt := range tests {
		ok, caps := MatchAddr(tt.path, tt.addr)
		assert.Equal(t, tt.expectMatch, ok, "match result mismatch for path=%q addr=%q", tt.path, tt.addr)
		if tt.expectMatch {
			assert.Equal(t, tt.expectCaptures, caps, "captures mismatch for path=%q addr=%q", tt.path, tt.addr)
		}
	}
}

func TestDispatcher(t *testing.T) {
	assert := assert.New(t)
	d := NewDispatcher()

	var order []string
	d.AddMsgHandler("/meta/logging/@/level", func(msg translate.Message, captures []string) {
		order = append(order, "level:"+captures[0])
	})
	d.AddMsgHandler("/meta/*", func(msg translate.Message, captures []string) {
		order = append(order, "meta")
	})

	assert.True(d.Dispatch(translate.Message{Address: "/meta/logging/app/level", Args: []rcp.Value{rcp.Int(0)}}))
	assert.Equal([]string{"level:app", "meta"}, order)

	assert.False(d.Dispatch(translate.Message{Address: "/scene/current"}))
	assert.Len(order, 2)
}

package rcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		expect []string
	}{
		{"basic", "command arg1 arg2", []string{"command", "arg1", "arg2"}},
		{"quoted span", `command "arg with spaces" arg2`, []string{"command", `"arg with spaces"`, "arg2"}},
		{"empty", "", nil},
		{"only spaces", "    ", nil},
		{"repeated spaces", "command   arg1    arg2", []string{"command", "arg1", "arg2"}},
		{"leading and trailing spaces", "  a b  ", []string{"a", "b"}},
		{"quote inside token", `name"x y"z tail`, []string{`name"x y"z`, "tail"}},
		{"empty quotes", `set "" 1`, []string{"set", `""`, "1"}},
		{"unmatched quote runs to end", `scene name "Test Scene 1`, []string{"scene", "name", `"Test Scene 1`}},
		{"unmatched quote keeps trailing spaces", `a "b  `, []string{"a", `"b  `}},
		{"tabs are not separators", "a\tb c", []string{"a\tb", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Split(tt.line))
		})
	}
}

func TestSplitEmptyIsEmpty(t *testing.T) {
	assert.Empty(t, Split(""))
}

// File: internal/screen/keys_test.go
package screen

import (
	"testing"

	"github.com/chromedp/cdproto/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChord_PlainKeys(t *testing.T) {
	c, err := parseChord("enter")
	require.NoError(t, err)
	assert.Equal(t, "Enter", c.def.key)
	assert.Equal(t, input.Modifier(0), c.modifiers)
	assert.True(t, c.hasText())

	c, err = parseChord("esc")
	require.NoError(t, err)
	assert.Equal(t, "Escape", c.def.key)
	assert.False(t, c.hasText())
}

func TestParseChord_Letters(t *testing.T) {
	c, err := parseChord("l")
	require.NoError(t, err)
	assert.Equal(t, "l", c.def.key)
	assert.Equal(t, "KeyL", c.def.code)
	assert.EqualValues(t, 0x4C, c.def.vk)
}

func TestParseChord_FunctionKeys(t *testing.T) {
	c, err := parseChord("f4")
	require.NoError(t, err)
	assert.Equal(t, "F4", c.def.key)
	assert.False(t, c.hasText())
}

func TestParseChord_Combos(t *testing.T) {
	c, err := parseChord("ctrl+l")
	require.NoError(t, err)
	assert.Equal(t, input.ModifierCtrl, c.modifiers)
	assert.Equal(t, "l", c.def.key)
	// A ctrl chord is a command, not text input.
	assert.False(t, c.hasText())

	c, err = parseChord("alt+tab")
	require.NoError(t, err)
	assert.Equal(t, input.ModifierAlt, c.modifiers)
	assert.Equal(t, "Tab", c.def.key)

	c, err = parseChord("ctrl+shift+t")
	require.NoError(t, err)
	assert.Equal(t, input.ModifierCtrl|input.ModifierShift, c.modifiers)
}

func TestParseChord_Invalid(t *testing.T) {
	for _, name := range []string{"", "bogus", "ctrl+", "ctrl", "hyper+l", "ctrl+bogus", "l+ctrl"} {
		_, err := parseChord(name)
		assert.ErrorIs(t, err, ErrInvalidKey, "name %q", name)
	}
}

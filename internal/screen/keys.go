// File: internal/screen/keys.go
package screen

import (
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/input"
)

// keyDef describes one dispatchable key in CDP terms: DOM key value, physical
// code, Windows virtual-key code, and the text a plain press produces.
type keyDef struct {
	key  string
	code string
	vk   int64
	text string
}

// chord is a fully parsed key combination: zero or more modifiers plus one
// terminal key.
type chord struct {
	modifiers input.Modifier
	def       keyDef
}

var modifierNames = map[string]input.Modifier{
	"ctrl":    input.ModifierCtrl,
	"control": input.ModifierCtrl,
	"alt":     input.ModifierAlt,
	"shift":   input.ModifierShift,
	"win":     input.ModifierMeta,
	"meta":    input.ModifierMeta,
	"cmd":     input.ModifierMeta,
}

// namedKeys is the closed set of non-character keys the surface supports.
var namedKeys = map[string]keyDef{
	"enter":     {"Enter", "Enter", 0x0D, "\r"},
	"return":    {"Enter", "Enter", 0x0D, "\r"},
	"tab":       {"Tab", "Tab", 0x09, "\t"},
	"esc":       {"Escape", "Escape", 0x1B, ""},
	"escape":    {"Escape", "Escape", 0x1B, ""},
	"space":     {" ", "Space", 0x20, " "},
	"backspace": {"Backspace", "Backspace", 0x08, ""},
	"delete":    {"Delete", "Delete", 0x2E, ""},
	"insert":    {"Insert", "Insert", 0x2D, ""},
	"home":      {"Home", "Home", 0x24, ""},
	"end":       {"End", "End", 0x23, ""},
	"pageup":    {"PageUp", "PageUp", 0x21, ""},
	"pagedown":  {"PageDown", "PageDown", 0x22, ""},
	"up":        {"ArrowUp", "ArrowUp", 0x26, ""},
	"down":      {"ArrowDown", "ArrowDown", 0x28, ""},
	"left":      {"ArrowLeft", "ArrowLeft", 0x25, ""},
	"right":     {"ArrowRight", "ArrowRight", 0x27, ""},
}

func init() {
	// Letter and digit keys share a uniform shape; generate them.
	for r := 'a'; r <= 'z'; r++ {
		name := string(r)
		namedKeys[name] = keyDef{
			key:  name,
			code: "Key" + strings.ToUpper(name),
			vk:   int64(r - 'a' + 0x41),
			text: name,
		}
	}
	for r := '0'; r <= '9'; r++ {
		name := string(r)
		namedKeys[name] = keyDef{
			key:  name,
			code: "Digit" + name,
			vk:   int64(r - '0' + 0x30),
			text: name,
		}
	}
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("f%d", i)
		namedKeys[name] = keyDef{
			key:  fmt.Sprintf("F%d", i),
			code: fmt.Sprintf("F%d", i),
			vk:   int64(0x6F + i),
			text: "",
		}
	}
}

// parseChord resolves a case-folded key name like "enter", "ctrl+l" or
// "alt+tab". The last segment must be a terminal key; every earlier segment
// must be a modifier. Anything else fails with ErrInvalidKey.
func parseChord(name string) (chord, error) {
	parts := strings.Split(name, "+")
	var c chord
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i < len(parts)-1 {
			mod, ok := modifierNames[part]
			if !ok {
				return chord{}, fmt.Errorf("%w: %q", ErrInvalidKey, name)
			}
			c.modifiers |= mod
			continue
		}
		def, ok := namedKeys[part]
		if !ok {
			return chord{}, fmt.Errorf("%w: %q", ErrInvalidKey, name)
		}
		c.def = def
	}
	return c, nil
}

// hasText reports whether the press should carry a text payload. Combos with
// ctrl/alt/meta are commands, not text input.
func (c chord) hasText() bool {
	const command = input.ModifierCtrl | input.ModifierAlt | input.ModifierMeta
	return c.def.text != "" && c.modifiers&command == 0
}

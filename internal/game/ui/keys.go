package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/rockblast/internal/game/arena"
)

// escapeKey closes the window.
const escapeKey = imgui.KeyEscape

// namedKeys maps binding names that are not a single letter or digit.
// Names follow the SDL frontend so one config serves both.
var namedKeys = map[string]imgui.Key{
	"space":     imgui.KeySpace,
	"return":    imgui.KeyEnter,
	"tab":       imgui.KeyTab,
	"backspace": imgui.KeyBackspace,
	"left":      imgui.KeyLeftArrow,
	"right":     imgui.KeyRightArrow,
	"up":        imgui.KeyUpArrow,
	"down":      imgui.KeyDownArrow,
	";":         imgui.KeySemicolon,
	"'":         imgui.KeyApostrophe,
	",":         imgui.KeyComma,
	".":         imgui.KeyPeriod,
	"/":         imgui.KeySlash,
	"-":         imgui.KeyMinus,
	"=":         imgui.KeyEqual,
	"[":         imgui.KeyLeftBracket,
	"]":         imgui.KeyRightBracket,
	"\\":        imgui.KeyBackslash,
	"`":         imgui.KeyGraveAccent,
}

// keyFor resolves a binding name to an ImGui key.
func keyFor(name string) (imgui.Key, bool) {
	if len(name) == 1 {
		switch c := name[0]; {
		case c >= 'a' && c <= 'z':
			return imgui.KeyA + imgui.Key(c-'a'), true
		case c >= '0' && c <= '9':
			return imgui.Key0 + imgui.Key(c-'0'), true
		}
	}
	k, ok := namedKeys[name]
	return k, ok
}

// boundKey pairs a binding name with the key ImGui reports for it.
type boundKey struct {
	name string
	key  imgui.Key
}

// watchedKeys lists the keys to poll for b, skipping names ImGui has no
// key for.
func watchedKeys(b arena.Bindings) (keys []boundKey, skipped []string) {
	for name := range b {
		if k, ok := keyFor(name); ok {
			keys = append(keys, boundKey{name: name, key: k})
		} else {
			skipped = append(skipped, name)
		}
	}
	return keys, skipped
}

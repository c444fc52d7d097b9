package platform

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var keyAliases = map[string]string{
	"escape":    "esc",
	"return":    "enter",
	"spacebar":  "space",
	"tilde":     "~",
	"grave":     "`",
	"backquote": "`",
	"backtick":  "`",
	"del":       "delete",
	"ctrl_l":    "ctrl",
	"ctrl_r":    "ctrl",
	"shift_l":   "shift",
	"shift_r":   "shift",
	"alt_l":     "alt",
	"alt_r":     "alt",
}

// NormalizeKey returns the canonical form of a key name as written in the
// config file. Single characters are kept as-is so "~" and "`" stay distinct;
// longer names are case-insensitive and may carry a "Key." prefix.
func NormalizeKey(name string) string {
	if name == " " {
		return "space"
	}
	s := strings.TrimSpace(name)
	if utf8.RuneCountInString(s) == 1 {
		return s
	}

	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "key.")
	if alias, ok := keyAliases[s]; ok {
		return alias
	}
	return s
}

// vkName is the key produced by a virtual key without and with shift held
type vkName struct {
	plain   string
	shifted string
}

// vkNames maps Windows virtual-key codes to key names (US layout)
var vkNames = map[uint32]vkName{
	0x08: {"backspace", "backspace"},
	0x09: {"tab", "tab"},
	0x0D: {"enter", "enter"},
	0x13: {"pause", "pause"},
	0x14: {"caps_lock", "caps_lock"},
	0x1B: {"esc", "esc"},
	0x20: {"space", "space"},
	0x21: {"page_up", "page_up"},
	0x22: {"page_down", "page_down"},
	0x23: {"end", "end"},
	0x24: {"home", "home"},
	0x25: {"left", "left"},
	0x26: {"up", "up"},
	0x27: {"right", "right"},
	0x28: {"down", "down"},
	0x2C: {"print_screen", "print_screen"},
	0x2D: {"insert", "insert"},
	0x2E: {"delete", "delete"},
	0x30: {"0", ")"},
	0x31: {"1", "!"},
	0x32: {"2", "@"},
	0x33: {"3", "#"},
	0x34: {"4", "$"},
	0x35: {"5", "%"},
	0x36: {"6", "^"},
	0x37: {"7", "&"},
	0x38: {"8", "*"},
	0x39: {"9", "("},
	0x90: {"num_lock", "num_lock"},
	0x91: {"scroll_lock", "scroll_lock"},
	0xBA: {";", ":"},
	0xBB: {"=", "+"},
	0xBC: {",", "<"},
	0xBD: {"-", "_"},
	0xBE: {".", ">"},
	0xBF: {"/", "?"},
	0xC0: {"`", "~"},
	0xDB: {"[", "{"},
	0xDC: {"\\", "|"},
	0xDD: {"]", "}"},
	0xDE: {"'", "\""},
}

// KeyName returns the normalized name for a Windows virtual-key code, or ""
// when the key has no name.
func KeyName(vk uint32, shift bool) string {
	switch {
	case vk >= 0x41 && vk <= 0x5A:
		c := string(rune('a' + vk - 0x41))
		if shift {
			return strings.ToUpper(c)
		}
		return c
	case vk >= 0x60 && vk <= 0x69:
		return string(rune('0' + vk - 0x60))
	case vk >= 0x70 && vk <= 0x87:
		return "f" + strconv.Itoa(int(vk-0x70+1))
	}

	n, ok := vkNames[vk]
	if !ok {
		return ""
	}
	if shift {
		return n.shifted
	}
	return n.plain
}

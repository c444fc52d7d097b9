package platform

import (
	"strings"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"esc", "esc"},
		{"ESC", "esc"},
		{"Key.esc", "esc"},
		{"escape", "esc"},
		{" Escape ", "esc"},
		{"~", "~"},
		{"`", "`"},
		{"tilde", "~"},
		{"grave", "`"},
		{"1", "1"},
		{"A", "A"},
		{"F5", "f5"},
		{"Key.f12", "f12"},
		{"return", "enter"},
		{" ", "space"},
	}

	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		vk    uint32
		shift bool
		want  string
	}{
		{0x1B, false, "esc"},
		{0x31, false, "1"},
		{0x31, true, "!"},
		{0xC0, false, "`"},
		{0xC0, true, "~"},
		{0x41, false, "a"},
		{0x41, true, "A"},
		{0x62, false, "2"},
		{0x70, false, "f1"},
		{0x7B, false, "f12"},
		{0x10, false, ""},
	}

	for _, tt := range tests {
		if got := KeyName(tt.vk, tt.shift); got != tt.want {
			t.Errorf("KeyName(%#x, %v) = %q, want %q", tt.vk, tt.shift, got, tt.want)
		}
	}
}

func TestKeyNameMatchesConfigNames(t *testing.T) {
	// Names produced by the hook must survive normalization unchanged.
	for vk := uint32(0); vk < 0xFF; vk++ {
		for _, shift := range []bool{false, true} {
			name := KeyName(vk, shift)
			if name == "" {
				continue
			}
			if got := NormalizeKey(name); got != name {
				t.Errorf("NormalizeKey(KeyName(%#x)) = %q, want %q", vk, got, name)
			}
		}
	}
}

func TestPopupSize(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		w, h  int
		wantW int
		wantH int
	}{
		{"short text uses minimums", "4", 1920, 1080, 30, 3},
		{"long line grows width", strings.Repeat("x", 100), 1920, 1080, 105, 3},
		{"many lines grow height", strings.Repeat("a\n", 9) + "a", 1920, 1080, 30, 12},
		{"clipped to screen", strings.Repeat("x", 1000) + strings.Repeat("\n", 200), 1920, 1080, 200, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := PopupSize(tt.text, tt.w, tt.h, 300, 200)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("PopupSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPopupSizeOffscreenOffset(t *testing.T) {
	for _, pos := range [][2]int{{1950, 1100}, {1920, 1080}, {1910, 300}} {
		w, h := PopupSize("4", 1920, 1080, pos[0], pos[1])
		if w < 1 || h < 1 {
			t.Errorf("PopupSize at %d,%d = %dx%d, want at least 1x1", pos[0], pos[1], w, h)
		}
	}

	if w, h := PopupSize("4", 1920, 1080, 1950, 1100); w != 1 || h != 1 {
		t.Errorf("PopupSize past the corner = %dx%d, want 1x1", w, h)
	}
}

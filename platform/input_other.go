//go:build !windows

package platform

import (
	"context"
	"unicode"
	"unicode/utf8"

	hook "github.com/robotn/gohook"
)

// HookInput implements Input on top of libuiohook
type HookInput struct{}

// NewInput creates a new input listener
func NewInput() Input {
	return &HookInput{}
}

// Listen starts the global hook and translates its events until ctx is done
func (h *HookInput) Listen(ctx context.Context) (<-chan Event, error) {
	raw := hook.Start()
	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer hook.End()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				evt, ok := translate(ev)
				if !ok {
					continue
				}
				select {
				case events <- evt:
				default:
				}
			}
		}
	}()

	return events, nil
}

// translate maps a hook event to an Event. Printable keys arrive as typed
// characters (KeyDown) so shifted symbols like "~" are preserved; named keys
// such as "esc" come from the raw press (KeyHold).
func translate(ev hook.Event) (Event, bool) {
	switch ev.Kind {
	case hook.KeyDown:
		if ev.Keychar == hook.CharUndefined || !unicode.IsPrint(ev.Keychar) {
			return Event{}, false
		}
		return Event{Kind: KeyPress, Key: NormalizeKey(string(ev.Keychar))}, true

	case hook.KeyHold:
		name := hook.RawcodetoKeychar(ev.Rawcode)
		if utf8.RuneCountInString(name) <= 1 {
			return Event{}, false
		}
		return Event{Kind: KeyPress, Key: NormalizeKey(name)}, true

	case hook.MouseHold:
		switch ev.Button {
		case hook.MouseMap["left"]:
			return Event{Kind: MousePress, Button: LeftButton}, true
		case hook.MouseMap["right"]:
			return Event{Kind: MousePress, Button: RightButton}, true
		case hook.MouseMap["center"]:
			return Event{Kind: MousePress, Button: MiddleButton}, true
		}
	}
	return Event{}, false
}

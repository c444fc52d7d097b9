//go:build windows

package platform

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	setWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	callNextHookEx      = user32.NewProc("CallNextHookEx")
	unhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	getMessage          = user32.NewProc("GetMessageW")
	postThreadMessage   = user32.NewProc("PostThreadMessageW")
	getAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmQuit        = 0x0012
	wmKeydown     = 0x0100
	wmKeyup       = 0x0101
	wmSyskeydown  = 0x0104
	wmSyskeyup    = 0x0105
	wmLbuttondown = 0x0201
	wmRbuttondown = 0x0204
	wmMbuttondown = 0x0207

	llkhfInjected = 0x10
	llmhfInjected = 0x01

	vkShift = 0x10
)

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msllhookstruct struct {
	pt          struct{ x, y int32 }
	mouseData   uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// WindowsInput implements Input with low-level keyboard and mouse hooks
type WindowsInput struct {
	mu     sync.Mutex
	events chan Event
	down   map[uint32]bool
}

// NewInput creates a new Windows input listener
func NewInput() Input {
	return &WindowsInput{}
}

// Listen installs the hooks and returns a channel of input events. The hooks
// are removed when ctx is cancelled.
func (h *WindowsInput) Listen(ctx context.Context) (<-chan Event, error) {
	h.mu.Lock()
	h.events = make(chan Event, 16)
	h.down = make(map[uint32]bool)
	h.mu.Unlock()

	// Start hooks in a goroutine
	ready := make(chan uint32, 1)
	errCh := make(chan error, 1)
	go h.runHooks(ready, errCh)

	var threadID uint32
	select {
	case err := <-errCh:
		return nil, err
	case threadID = <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Stop the message loop on cancellation; the hook goroutine unhooks
	go func() {
		<-ctx.Done()
		postThreadMessage.Call(uintptr(threadID), wmQuit, 0, 0)
	}()

	return h.events, nil
}

func (h *WindowsInput) runHooks(ready chan<- uint32, errCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	keyboardProc := func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 {
			h.handleKey(wParam, (*kbdllhookstruct)(unsafe.Pointer(lParam)))
		}
		r, _, _ := callNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return r
	}
	mouseProc := func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 {
			h.handleMouse(wParam, (*msllhookstruct)(unsafe.Pointer(lParam)))
		}
		r, _, _ := callNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return r
	}

	kbHook, _, err := setWindowsHookEx.Call(whKeyboardLL, windows.NewCallback(keyboardProc), 0, 0)
	if kbHook == 0 {
		errCh <- fmt.Errorf("SetWindowsHookEx keyboard failed: %w", err)
		return
	}
	defer unhookWindowsHookEx.Call(kbHook)

	mouseHook, _, err := setWindowsHookEx.Call(whMouseLL, windows.NewCallback(mouseProc), 0, 0)
	if mouseHook == 0 {
		errCh <- fmt.Errorf("SetWindowsHookEx mouse failed: %w", err)
		return
	}
	defer unhookWindowsHookEx.Call(mouseHook)

	ready <- windows.GetCurrentThreadId()

	// Low-level hooks are called from this thread's message loop
	var m msg
	for {
		r, _, _ := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			return
		}
	}
}

func (h *WindowsInput) handleKey(wParam uintptr, kb *kbdllhookstruct) {
	// Ignore our own synthesized Ctrl+C
	if kb.flags&llkhfInjected != 0 {
		return
	}

	switch wParam {
	case wmKeydown, wmSyskeydown:
		h.mu.Lock()
		repeat := h.down[kb.vkCode]
		h.down[kb.vkCode] = true
		h.mu.Unlock()
		if repeat {
			return
		}

		name := KeyName(kb.vkCode, isKeyPressed(vkShift))
		if name == "" {
			return
		}
		h.send(Event{Kind: KeyPress, Key: name})

	case wmKeyup, wmSyskeyup:
		h.mu.Lock()
		delete(h.down, kb.vkCode)
		h.mu.Unlock()
	}
}

func (h *WindowsInput) handleMouse(wParam uintptr, ms *msllhookstruct) {
	if ms.flags&llmhfInjected != 0 {
		return
	}

	var button MouseButton
	switch wParam {
	case wmLbuttondown:
		button = LeftButton
	case wmRbuttondown:
		button = RightButton
	case wmMbuttondown:
		button = MiddleButton
	default:
		return
	}
	h.send(Event{Kind: MousePress, Button: button})
}

// send never blocks the hook thread; events are dropped if the consumer lags
func (h *WindowsInput) send(evt Event) {
	select {
	case h.events <- evt:
	default:
	}
}

func isKeyPressed(vk int) bool {
	r, _, _ := getAsyncKeyState.Call(uintptr(vk))
	return r&0x8000 != 0
}

//go:build windows

package platform

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	gdi32 = windows.NewLazySystemDLL("gdi32.dll")

	registerClassEx            = user32.NewProc("RegisterClassExW")
	createWindowEx             = user32.NewProc("CreateWindowExW")
	defWindowProc              = user32.NewProc("DefWindowProcW")
	destroyWindow              = user32.NewProc("DestroyWindow")
	showWindow                 = user32.NewProc("ShowWindow")
	updateWindow               = user32.NewProc("UpdateWindow")
	setLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	setTimer                   = user32.NewProc("SetTimer")
	killTimer                  = user32.NewProc("KillTimer")
	postQuitMessage            = user32.NewProc("PostQuitMessage")
	translateMessage           = user32.NewProc("TranslateMessage")
	dispatchMessage            = user32.NewProc("DispatchMessageW")
	beginPaint                 = user32.NewProc("BeginPaint")
	endPaint                   = user32.NewProc("EndPaint")
	drawText                   = user32.NewProc("DrawTextW")
	fillRect                   = user32.NewProc("FillRect")
	getClientRect              = user32.NewProc("GetClientRect")
	getSysColorBrush           = user32.NewProc("GetSysColorBrush")
	getSystemMetrics           = user32.NewProc("GetSystemMetrics")

	getStockObject = gdi32.NewProc("GetStockObject")
	selectObject   = gdi32.NewProc("SelectObject")
	setBkMode      = gdi32.NewProc("SetBkMode")
)

const (
	wsPopup        = 0x80000000
	wsExTopmost    = 0x00000008
	wsExToolWindow = 0x00000080
	wsExLayered    = 0x00080000
	wsExNoActivate = 0x08000000
	lwaAlpha       = 0x2
	swShowNoActive = 4
	wmDestroy      = 0x0002
	wmPaint        = 0x000F
	wmTimer        = 0x0113
	dtWordBreak    = 0x0010
	dtExpandTabs   = 0x0040
	dtNoPrefix     = 0x0800
	colorWindow    = 5
	bkTransparent  = 1
	defaultGUIFont = 17
	smCxScreen     = 0
	smCyScreen     = 1
	popupPadding   = 10
	popupTimerID   = 1
	popupClassName = "JokerPopup"
)

type rect struct {
	left, top, right, bottom int32
}

type paintStruct struct {
	hdc         uintptr
	erase       int32
	rcPaint     rect
	restore     int32
	incUpdate   int32
	rgbReserved [32]byte
}

type wndClassEx struct {
	size       uint32
	style      uint32
	wndProc    uintptr
	clsExtra   int32
	wndExtra   int32
	instance   windows.Handle
	icon       windows.Handle
	cursor     windows.Handle
	background windows.Handle
	menuName   *uint16
	className  *uint16
	iconSm     windows.Handle
}

var (
	popupClass struct {
		once sync.Once
		err  error
	}
	// popupTexts holds the text painted by each live popup window
	popupTexts sync.Map
)

// WindowsPopup implements Popup with a borderless layered window
type WindowsPopup struct {
	opts PopupOptions
}

// NewPopup creates a popup presenter with the given options
func NewPopup(opts PopupOptions) Popup {
	return &WindowsPopup{opts: opts}
}

// Show displays text and blocks until the display time has elapsed and the
// window has been destroyed. An empty text is a no-op.
func (p *WindowsPopup) Show(text string) error {
	if text == "" {
		return nil
	}

	// The window and its message loop must stay on one OS thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := registerPopupClass(); err != nil {
		return err
	}

	screenW, _, _ := getSystemMetrics.Call(smCxScreen)
	screenH, _, _ := getSystemMetrics.Call(smCyScreen)
	cols, lines := PopupSize(text, int(screenW), int(screenH), p.opts.X, p.opts.Y)
	width := cols*CharWidth + 2*popupPadding
	height := lines*LineHeight + 2*popupPadding

	className, _ := windows.UTF16PtrFromString(popupClassName)
	title, _ := windows.UTF16PtrFromString("Response")
	hwnd, _, err := createWindowEx.Call(
		wsExTopmost|wsExToolWindow|wsExLayered|wsExNoActivate,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		wsPopup,
		uintptr(p.opts.X),
		uintptr(p.opts.Y),
		uintptr(width),
		uintptr(height),
		0, 0, 0, 0,
	)
	if hwnd == 0 {
		return fmt.Errorf("CreateWindowEx failed: %w", err)
	}

	utf16Text, err := windows.UTF16FromString(text)
	if err != nil {
		destroyWindow.Call(hwnd)
		return fmt.Errorf("UTF16 conversion failed: %w", err)
	}
	popupTexts.Store(hwnd, utf16Text)
	defer popupTexts.Delete(hwnd)

	alpha := min(max(p.opts.Alpha, 0), 1)
	setLayeredWindowAttributes.Call(hwnd, 0, uintptr(byte(alpha*255)), lwaAlpha)
	showWindow.Call(hwnd, swShowNoActive)
	updateWindow.Call(hwnd)

	if r, _, err := setTimer.Call(hwnd, popupTimerID, uintptr(p.opts.Duration.Milliseconds()), 0); r == 0 {
		destroyWindow.Call(hwnd)
		return fmt.Errorf("SetTimer failed: %w", err)
	}

	// Runs until WM_DESTROY posts WM_QUIT
	var m msg
	for {
		r, _, _ := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			return nil
		}
		translateMessage.Call(uintptr(unsafe.Pointer(&m)))
		dispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func registerPopupClass() error {
	popupClass.once.Do(func() {
		className, _ := windows.UTF16PtrFromString(popupClassName)
		var instance windows.Handle
		if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
			popupClass.err = fmt.Errorf("GetModuleHandleEx failed: %w", err)
			return
		}
		brush, _, _ := getSysColorBrush.Call(colorWindow)

		wc := wndClassEx{
			wndProc:    windows.NewCallback(popupWndProc),
			instance:   instance,
			background: windows.Handle(brush),
			className:  className,
		}
		wc.size = uint32(unsafe.Sizeof(wc))

		if r, _, err := registerClassEx.Call(uintptr(unsafe.Pointer(&wc))); r == 0 {
			popupClass.err = fmt.Errorf("RegisterClassEx failed: %w", err)
		}
	})
	return popupClass.err
}

func popupWndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	switch message {
	case wmPaint:
		paintPopup(hwnd)
		return 0
	case wmTimer:
		killTimer.Call(hwnd, popupTimerID)
		destroyWindow.Call(hwnd)
		return 0
	case wmDestroy:
		postQuitMessage.Call(0)
		return 0
	}
	r, _, _ := defWindowProc.Call(hwnd, message, wParam, lParam)
	return r
}

func paintPopup(hwnd uintptr) {
	var ps paintStruct
	hdc, _, _ := beginPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
	defer endPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))

	var rc rect
	getClientRect.Call(hwnd, uintptr(unsafe.Pointer(&rc)))
	brush, _, _ := getSysColorBrush.Call(colorWindow)
	fillRect.Call(hdc, uintptr(unsafe.Pointer(&rc)), brush)

	v, ok := popupTexts.Load(hwnd)
	if !ok {
		return
	}
	text := v.([]uint16)

	font, _, _ := getStockObject.Call(defaultGUIFont)
	selectObject.Call(hdc, font)
	setBkMode.Call(hdc, bkTransparent)

	rc.left += popupPadding
	rc.top += popupPadding
	rc.right -= popupPadding
	rc.bottom -= popupPadding
	drawText.Call(hdc, uintptr(unsafe.Pointer(&text[0])), uintptr(len(text)-1),
		uintptr(unsafe.Pointer(&rc)), dtWordBreak|dtExpandTabs|dtNoPrefix)
}

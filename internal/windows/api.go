//go:build windows

// Package windows binds the user32 calls the overlay needs to block a host
// window's input: cursor handling, key state and message helpers.
package windows

import (
	"syscall"
)

var (
	kernel32                     = syscall.NewLazyDLL("kernel32.dll")
	procGetCurrentProcessId      = kernel32.NewProc("GetCurrentProcessId")
	user32                       = syscall.NewLazyDLL("user32.dll")
	procLoadCursorW              = user32.NewProc("LoadCursorW")
	procSetCursor                = user32.NewProc("SetCursor")
	procGetCursor                = user32.NewProc("GetCursor")
	procShowCursor               = user32.NewProc("ShowCursor")
	procGetCursorPos             = user32.NewProc("GetCursorPos")
	procSetCursorPos             = user32.NewProc("SetCursorPos")
	procGetAsyncKeyState         = user32.NewProc("GetAsyncKeyState")
	procMapVirtualKeyW           = user32.NewProc("MapVirtualKeyW")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procScreenToClient           = user32.NewProc("ScreenToClient")
	procTranslateMessage         = user32.NewProc("TranslateMessage")
	procGetClientRect            = user32.NewProc("GetClientRect")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

const (
	WM_KEYUP = 0x0101

	MAPVK_VK_TO_VSC = 0
	KF_EXTENDED     = 0x0100

	// KEY_UP_PASSTHROUGH_LPARAM marks key-ups the input layer lets through.
	KEY_UP_PASSTHROUGH_LPARAM = 0xA1B3C5D7

	asyncKeyDown = 1 << 15
)

// Standard cursor resource ids for LoadCursorW.
const (
	IDC_ARROW       = 32512
	IDC_IBEAM       = 32513
	IDC_WAIT        = 32514
	IDC_CROSS       = 32515
	IDC_UPARROW     = 32516
	IDC_SIZENWSE    = 32642
	IDC_SIZENESW    = 32643
	IDC_SIZEWE      = 32644
	IDC_SIZENS      = 32645
	IDC_SIZEALL     = 32646
	IDC_NO          = 32648
	IDC_HAND        = 32649
	IDC_APPSTARTING = 32650
	IDC_HELP        = 32651
)

// Virtual keys that need the extended flag in their scan code.
const (
	VK_PRIOR    = 0x21
	VK_NEXT     = 0x22
	VK_END      = 0x23
	VK_HOME     = 0x24
	VK_LEFT     = 0x25
	VK_UP       = 0x26
	VK_RIGHT    = 0x27
	VK_DOWN     = 0x28
	VK_INSERT   = 0x2D
	VK_DELETE   = 0x2E
	VK_LWIN     = 0x5B
	VK_RWIN     = 0x5C
	VK_APPS     = 0x5D
	VK_DIVIDE   = 0x6F
	VK_NUMLOCK  = 0x90
	VK_RCONTROL = 0xA3
	VK_RMENU    = 0xA5
)

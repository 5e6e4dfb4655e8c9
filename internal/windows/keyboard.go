//go:build windows

package windows

import (
	"log/slog"
	"unsafe"

	"github.com/Norgate-AV/overlayd/internal/logger"
)

// IsKeyDown reports whether a virtual key is currently held.
func IsKeyDown(virtualKey uint8) bool {
	ret, _, _ := procGetAsyncKeyState.Call(uintptr(virtualKey))
	return ret&asyncKeyDown != 0
}

// VirtualKeyToScanCode maps a virtual key to its scan code, with the
// extended flag for keys on the extended block.
func VirtualKeyToScanCode(virtualKey uint8) uint16 {
	ret, _, _ := procMapVirtualKeyW.Call(uintptr(virtualKey), MAPVK_VK_TO_VSC)
	scanCode := uint16(ret)

	switch virtualKey {
	case VK_LEFT, VK_UP, VK_RIGHT, VK_DOWN, VK_RCONTROL, VK_RMENU, VK_LWIN, VK_RWIN, VK_APPS,
		VK_PRIOR, VK_NEXT, VK_END, VK_HOME, VK_INSERT, VK_DELETE, VK_DIVIDE, VK_NUMLOCK:
		scanCode |= KF_EXTENDED
	}

	return scanCode
}

// ReleasePressedKeys posts a pass-through WM_KEYUP to hwnd for every key
// currently held, and returns how many were posted.
func ReleasePressedKeys(hwnd uintptr, log logger.LoggerInterface) int {
	released := 0

	for vk := 0; vk < 256; vk++ {
		if !IsKeyDown(uint8(vk)) {
			continue
		}

		ret, _, err := procPostMessageW.Call(hwnd, WM_KEYUP, uintptr(vk), KEY_UP_PASSTHROUGH_LPARAM)
		if ret == 0 {
			log.Trace("PostMessageW failed",
				slog.Int("vk", vk),
				slog.Any("error", err),
			)

			continue
		}

		released++
	}

	return released
}

// TranslateMessage runs TranslateMessage on a reconstructed MSG so the
// host's queue receives the WM_CHAR for a key-down.
func TranslateMessage(hwnd uintptr, msg uint32, wParam, lParam uintptr) {
	m := MSG{Hwnd: hwnd, Message: msg, WParam: wParam, LParam: lParam}
	_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
}

// ScreenToClient converts a screen point to hwnd's client coordinates.
func ScreenToClient(hwnd uintptr, pt POINT) POINT {
	_, _, _ = procScreenToClient.Call(hwnd, uintptr(unsafe.Pointer(&pt)))
	return pt
}

// GetClientRect returns the size of hwnd's client area.
func GetClientRect(hwnd uintptr) (RECT, bool) {
	var r RECT
	ret, _, _ := procGetClientRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	return r, ret != 0
}

// ForegroundWindowOfProcess returns the foreground window if it belongs to
// this process, else 0.
func ForegroundWindowOfProcess() uintptr {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return 0
	}

	var pid uint32
	_, _, _ = procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))

	self, _, _ := procGetCurrentProcessId.Call()
	if uintptr(pid) != self {
		return 0
	}

	return hwnd
}

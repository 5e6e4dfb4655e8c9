//go:build windows

package windows

// POINT mirrors the Win32 POINT structure.
type POINT struct {
	X int32
	Y int32
}

// RECT mirrors the Win32 RECT structure.
type RECT struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// MSG mirrors the Win32 MSG structure.
type MSG struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       POINT
	LPrivate uint32
}

// cursorState is what the host had before input was blocked.
type cursorState struct {
	count  int32
	pos    POINT
	handle uintptr
	saved  bool
}

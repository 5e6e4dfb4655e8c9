//go:build windows

package windows

import (
	"unsafe"

	"github.com/Norgate-AV/overlayd/internal/cursor"
)

// idcFor maps a cursor kind to the closest standard Win32 cursor. Kinds
// without a system equivalent fall back to the arrow.
func idcFor(kind cursor.Kind) uintptr {
	switch kind {
	case cursor.ArrowProgress:
		return IDC_APPSTARTING
	case cursor.Wait:
		return IDC_WAIT
	case cursor.Text, cursor.VerticalText:
		return IDC_IBEAM
	case cursor.Pointer, cursor.Grab, cursor.Grabbing:
		return IDC_HAND
	case cursor.Help:
		return IDC_HELP
	case cursor.Crosshair, cursor.Cell:
		return IDC_CROSS
	case cursor.Move, cursor.PanningMiddle:
		return IDC_SIZEALL
	case cursor.ResizeNESW, cursor.PanningNorthEast, cursor.PanningSouthWest:
		return IDC_SIZENESW
	case cursor.ResizeNWSE, cursor.PanningNorthWest, cursor.PanningSouthEast:
		return IDC_SIZENWSE
	case cursor.ResizeNS, cursor.RowResize, cursor.PanningMiddleVertical, cursor.PanningNorth, cursor.PanningSouth:
		return IDC_SIZENS
	case cursor.ResizeWE, cursor.ColumnResize, cursor.PanningMiddleHorizontal, cursor.PanningEast, cursor.PanningWest:
		return IDC_SIZEWE
	case cursor.No:
		return IDC_NO
	case cursor.Alias, cursor.Copy:
		return IDC_UPARROW
	default:
		return IDC_ARROW
	}
}

// LoadCursor returns the shared handle of a standard cursor, or 0 for
// cursor.None.
func LoadCursor(kind cursor.Kind) uintptr {
	if !kind.Visible() {
		return 0
	}

	h, _, _ := procLoadCursorW.Call(0, idcFor(kind))
	return h
}

// SetCursor sets the current cursor handle and returns the previous one.
func SetCursor(handle uintptr) uintptr {
	prev, _, _ := procSetCursor.Call(handle)
	return prev
}

// GetCursor returns the current cursor handle.
func GetCursor() uintptr {
	h, _, _ := procGetCursor.Call()
	return h
}

// ShowCursor adjusts the display counter and returns its new value.
func ShowCursor(show bool) int32 {
	var arg uintptr
	if show {
		arg = 1
	}

	ret, _, _ := procShowCursor.Call(arg)
	return int32(ret)
}

// GetCursorPos returns the cursor position in screen coordinates.
func GetCursorPos() (POINT, bool) {
	var pt POINT
	ret, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	return pt, ret != 0
}

// SetCursorPos moves the cursor to screen coordinates.
func SetCursorPos(x, y int32) bool {
	ret, _, _ := procSetCursorPos.Call(uintptr(x), uintptr(y))
	return ret != 0
}

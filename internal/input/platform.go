package input

import (
	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/geom"
)

// NopPlatform performs no OS side effects. It is used when the overlay runs
// without a host window.
type NopPlatform struct{}

func (NopPlatform) SetCursor(cursor.Kind)                     {}
func (NopPlatform) SaveCursorState()                          {}
func (NopPlatform) RestoreCursorState()                       {}
func (NopPlatform) ReleasePressedKeys()                       {}
func (NopPlatform) ScanCode(uint8) uint16                     { return 0 }
func (NopPlatform) ScreenToClient(pt geom.Point) geom.Point   { return pt }
func (NopPlatform) TranslateMessage(uint32, uintptr, uintptr) {}

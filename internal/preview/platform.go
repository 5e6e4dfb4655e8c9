package preview

import (
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/geom"
	"github.com/Norgate-AV/overlayd/internal/interfaces"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

var cursorShapes = map[cursor.Kind]ebiten.CursorShapeType{
	cursor.Arrow:                   ebiten.CursorShapeDefault,
	cursor.ArrowProgress:           ebiten.CursorShapeDefault,
	cursor.Wait:                    ebiten.CursorShapeDefault,
	cursor.Text:                    ebiten.CursorShapeText,
	cursor.VerticalText:            ebiten.CursorShapeText,
	cursor.Pointer:                 ebiten.CursorShapePointer,
	cursor.Crosshair:               ebiten.CursorShapeCrosshair,
	cursor.Cell:                    ebiten.CursorShapeCrosshair,
	cursor.Move:                    ebiten.CursorShapeMove,
	cursor.Grab:                    ebiten.CursorShapeMove,
	cursor.Grabbing:                ebiten.CursorShapeMove,
	cursor.PanningMiddle:           ebiten.CursorShapeMove,
	cursor.ResizeNESW:              ebiten.CursorShapeNESWResize,
	cursor.ResizeNS:                ebiten.CursorShapeNSResize,
	cursor.RowResize:               ebiten.CursorShapeNSResize,
	cursor.PanningMiddleVertical:   ebiten.CursorShapeNSResize,
	cursor.PanningNorth:            ebiten.CursorShapeNSResize,
	cursor.PanningSouth:            ebiten.CursorShapeNSResize,
	cursor.ResizeNWSE:              ebiten.CursorShapeNWSEResize,
	cursor.ResizeWE:                ebiten.CursorShapeEWResize,
	cursor.ColumnResize:            ebiten.CursorShapeEWResize,
	cursor.PanningMiddleHorizontal: ebiten.CursorShapeEWResize,
	cursor.PanningEast:             ebiten.CursorShapeEWResize,
	cursor.PanningWest:             ebiten.CursorShapeEWResize,
	cursor.PanningNorthEast:        ebiten.CursorShapeNESWResize,
	cursor.PanningSouthWest:        ebiten.CursorShapeNESWResize,
	cursor.PanningNorthWest:        ebiten.CursorShapeNWSEResize,
	cursor.PanningSouthEast:        ebiten.CursorShapeNWSEResize,
	cursor.No:                      ebiten.CursorShapeNotAllowed,
}

// Platform shows overlay cursors on the preview window. Key release and
// scan-code lookups go to the host platform of the OS the preview runs on.
type Platform struct {
	log  logger.LoggerInterface
	host interfaces.Platform

	mu         sync.Mutex
	savedShape ebiten.CursorShapeType
	savedMode  ebiten.CursorModeType
}

// NewPlatform creates a Platform delegating OS work to host.
func NewPlatform(log logger.LoggerInterface, host interfaces.Platform) *Platform {
	return &Platform{
		log:        log,
		host:       host,
		savedShape: ebiten.CursorShapeDefault,
		savedMode:  ebiten.CursorModeVisible,
	}
}

// ShapeFor maps an overlay cursor onto the closest shape ebiten offers.
func ShapeFor(kind cursor.Kind) ebiten.CursorShapeType {
	if shape, ok := cursorShapes[kind]; ok {
		return shape
	}

	return ebiten.CursorShapeDefault
}

func (p *Platform) SetCursor(kind cursor.Kind) {
	p.log.Trace("Cursor set", slog.String("cursor", kind.String()))

	if !kind.Visible() {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
		return
	}

	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	ebiten.SetCursorShape(ShapeFor(kind))
}

func (p *Platform) SaveCursorState() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.savedShape = ebiten.CursorShape()
	p.savedMode = ebiten.CursorMode()
}

func (p *Platform) RestoreCursorState() {
	p.mu.Lock()
	defer p.mu.Unlock()

	ebiten.SetCursorMode(p.savedMode)
	ebiten.SetCursorShape(p.savedShape)
}

func (p *Platform) ReleasePressedKeys() {
	p.host.ReleasePressedKeys()
}

func (p *Platform) ScanCode(virtualKey uint8) uint16 {
	return p.host.ScanCode(virtualKey)
}

// ScreenToClient is the identity: the driver reports window coordinates.
func (p *Platform) ScreenToClient(pt geom.Point) geom.Point {
	return pt
}

// TranslateMessage does nothing; the driver reads typed text from ebiten
// and synthesizes the character messages itself.
func (p *Platform) TranslateMessage(uint32, uintptr, uintptr) {}

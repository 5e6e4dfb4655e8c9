// Package cursor enumerates the standard system cursors a client window can
// request while it is hovered.
package cursor

import (
	"fmt"
	"strings"
)

// Kind identifies a standard system cursor. None hides the cursor.
type Kind int32

const (
	None Kind = iota
	Arrow
	ArrowProgress
	Wait
	Text
	Pointer
	Help
	Crosshair
	Move
	ResizeNESW
	ResizeNS
	ResizeNWSE
	ResizeWE
	No
	Alias
	Cell
	ColumnResize
	Grab
	Grabbing
	PanningEast
	PanningMiddle
	PanningMiddleHorizontal
	PanningMiddleVertical
	PanningNorth
	PanningNorthEast
	PanningNorthWest
	PanningSouth
	PanningSouthEast
	PanningSouthWest
	PanningWest
	RowResize
	VerticalText
	ZoomIn
	ZoomOut
	Copy
)

// Default is shown when no window is hovered.
const Default = Arrow

var names = [...]string{
	None:                    "none",
	Arrow:                   "arrow",
	ArrowProgress:           "arrow-progress",
	Wait:                    "wait",
	Text:                    "text",
	Pointer:                 "pointer",
	Help:                    "help",
	Crosshair:               "crosshair",
	Move:                    "move",
	ResizeNESW:              "resize-nesw",
	ResizeNS:                "resize-ns",
	ResizeNWSE:              "resize-nwse",
	ResizeWE:                "resize-we",
	No:                      "no",
	Alias:                   "alias",
	Cell:                    "cell",
	ColumnResize:            "column-resize",
	Grab:                    "grab",
	Grabbing:                "grabbing",
	PanningEast:             "panning-east",
	PanningMiddle:           "panning-middle",
	PanningMiddleHorizontal: "panning-middle-horizontal",
	PanningMiddleVertical:   "panning-middle-vertical",
	PanningNorth:            "panning-north",
	PanningNorthEast:        "panning-north-east",
	PanningNorthWest:        "panning-north-west",
	PanningSouth:            "panning-south",
	PanningSouthEast:        "panning-south-east",
	PanningSouthWest:        "panning-south-west",
	PanningWest:             "panning-west",
	RowResize:               "row-resize",
	VerticalText:            "vertical-text",
	ZoomIn:                  "zoom-in",
	ZoomOut:                 "zoom-out",
	Copy:                    "copy",
}

// Valid reports whether k is a known cursor.
func (k Kind) Valid() bool {
	return k >= None && int(k) < len(names)
}

// Visible reports whether the cursor should be drawn at all.
func (k Kind) Visible() bool {
	return k != None
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("cursor(%d)", int32(k))
	}

	return names[k]
}

// Parse resolves a cursor name as written in scene and config files.
func Parse(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default, nil
	}

	for i, n := range names {
		if n == name {
			return Kind(i), nil
		}
	}

	return None, fmt.Errorf("unknown cursor %q", name)
}

package preview

import "github.com/hajimehoshi/ebiten/v2"

// virtualKeys maps ebiten keys onto Win32 virtual-key codes. Modifier keys
// map to their side-neutral codes, as WM_KEYDOWN reports them.
var virtualKeys = map[ebiten.Key]uint8{
	ebiten.KeyA: 0x41, ebiten.KeyB: 0x42, ebiten.KeyC: 0x43, ebiten.KeyD: 0x44,
	ebiten.KeyE: 0x45, ebiten.KeyF: 0x46, ebiten.KeyG: 0x47, ebiten.KeyH: 0x48,
	ebiten.KeyI: 0x49, ebiten.KeyJ: 0x4A, ebiten.KeyK: 0x4B, ebiten.KeyL: 0x4C,
	ebiten.KeyM: 0x4D, ebiten.KeyN: 0x4E, ebiten.KeyO: 0x4F, ebiten.KeyP: 0x50,
	ebiten.KeyQ: 0x51, ebiten.KeyR: 0x52, ebiten.KeyS: 0x53, ebiten.KeyT: 0x54,
	ebiten.KeyU: 0x55, ebiten.KeyV: 0x56, ebiten.KeyW: 0x57, ebiten.KeyX: 0x58,
	ebiten.KeyY: 0x59, ebiten.KeyZ: 0x5A,

	ebiten.KeyDigit0: 0x30, ebiten.KeyDigit1: 0x31, ebiten.KeyDigit2: 0x32,
	ebiten.KeyDigit3: 0x33, ebiten.KeyDigit4: 0x34, ebiten.KeyDigit5: 0x35,
	ebiten.KeyDigit6: 0x36, ebiten.KeyDigit7: 0x37, ebiten.KeyDigit8: 0x38,
	ebiten.KeyDigit9: 0x39,

	ebiten.KeyF1: 0x70, ebiten.KeyF2: 0x71, ebiten.KeyF3: 0x72, ebiten.KeyF4: 0x73,
	ebiten.KeyF5: 0x74, ebiten.KeyF6: 0x75, ebiten.KeyF7: 0x76, ebiten.KeyF8: 0x77,
	ebiten.KeyF9: 0x78, ebiten.KeyF10: 0x79, ebiten.KeyF11: 0x7A, ebiten.KeyF12: 0x7B,

	ebiten.KeyNumpad0: 0x60, ebiten.KeyNumpad1: 0x61, ebiten.KeyNumpad2: 0x62,
	ebiten.KeyNumpad3: 0x63, ebiten.KeyNumpad4: 0x64, ebiten.KeyNumpad5: 0x65,
	ebiten.KeyNumpad6: 0x66, ebiten.KeyNumpad7: 0x67, ebiten.KeyNumpad8: 0x68,
	ebiten.KeyNumpad9: 0x69,
	ebiten.KeyNumpadMultiply: 0x6A,
	ebiten.KeyNumpadAdd:      0x6B,
	ebiten.KeyNumpadSubtract: 0x6D,
	ebiten.KeyNumpadDecimal:  0x6E,
	ebiten.KeyNumpadDivide:   0x6F,
	ebiten.KeyNumpadEnter:    0x0D,

	ebiten.KeyBackspace:    0x08,
	ebiten.KeyTab:          0x09,
	ebiten.KeyEnter:        0x0D,
	ebiten.KeyShiftLeft:    0x10,
	ebiten.KeyShiftRight:   0x10,
	ebiten.KeyControlLeft:  0x11,
	ebiten.KeyControlRight: 0x11,
	ebiten.KeyAltLeft:      0x12,
	ebiten.KeyAltRight:     0x12,
	ebiten.KeyPause:        0x13,
	ebiten.KeyCapsLock:     0x14,
	ebiten.KeyEscape:       0x1B,
	ebiten.KeySpace:        0x20,
	ebiten.KeyPageUp:       0x21,
	ebiten.KeyPageDown:     0x22,
	ebiten.KeyEnd:          0x23,
	ebiten.KeyHome:         0x24,
	ebiten.KeyArrowLeft:    0x25,
	ebiten.KeyArrowUp:      0x26,
	ebiten.KeyArrowRight:   0x27,
	ebiten.KeyArrowDown:    0x28,
	ebiten.KeyPrintScreen:  0x2C,
	ebiten.KeyInsert:       0x2D,
	ebiten.KeyDelete:       0x2E,
	ebiten.KeyMetaLeft:     0x5B,
	ebiten.KeyMetaRight:    0x5C,
	ebiten.KeyContextMenu:  0x5D,
	ebiten.KeyNumLock:      0x90,
	ebiten.KeyScrollLock:   0x91,

	ebiten.KeySemicolon:     0xBA,
	ebiten.KeyEqual:         0xBB,
	ebiten.KeyComma:         0xBC,
	ebiten.KeyMinus:         0xBD,
	ebiten.KeyPeriod:        0xBE,
	ebiten.KeySlash:         0xBF,
	ebiten.KeyBackquote:     0xC0,
	ebiten.KeyBracketLeft:   0xDB,
	ebiten.KeyBackslash:     0xDC,
	ebiten.KeyBracketRight:  0xDD,
	ebiten.KeyQuote:         0xDE,
	ebiten.KeyIntlBackslash: 0xE2,
}

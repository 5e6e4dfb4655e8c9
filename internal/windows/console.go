//go:build windows

package windows

import (
	"syscall"
)

var setConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")

// Console control event types
const (
	CTRL_C_EVENT        = 0
	CTRL_BREAK_EVENT    = 1
	CTRL_CLOSE_EVENT    = 2
	CTRL_LOGOFF_EVENT   = 5
	CTRL_SHUTDOWN_EVENT = 6
)

// ConsoleCtrlHandler receives the name of a console control event and
// reports whether it handled it.
type ConsoleCtrlHandler func(event string) bool

var consoleHandler ConsoleCtrlHandler

// SetConsoleCtrlHandler routes console close, logoff and shutdown events to
// handler. Ctrl+C is left to os/signal.
func SetConsoleCtrlHandler(handler ConsoleCtrlHandler) error {
	consoleHandler = handler

	ret, _, err := setConsoleCtrlHandler.Call(
		syscall.NewCallback(consoleCtrlCallback),
		1,
	)
	if ret == 0 {
		return err
	}

	return nil
}

func consoleCtrlCallback(ctrlType uint32) uintptr {
	if consoleHandler == nil || ctrlType == CTRL_C_EVENT {
		return 0
	}

	if consoleHandler(CtrlTypeName(ctrlType)) {
		return 1
	}

	return 0
}

// CtrlTypeName returns a human-readable name for a control event type
func CtrlTypeName(ctrlType uint32) string {
	switch ctrlType {
	case CTRL_C_EVENT:
		return "CTRL_C"
	case CTRL_BREAK_EVENT:
		return "CTRL_BREAK"
	case CTRL_CLOSE_EVENT:
		return "CTRL_CLOSE"
	case CTRL_LOGOFF_EVENT:
		return "CTRL_LOGOFF"
	case CTRL_SHUTDOWN_EVENT:
		return "CTRL_SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

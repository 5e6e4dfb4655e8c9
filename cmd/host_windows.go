//go:build windows

package cmd

import (
	"log/slog"

	"github.com/Norgate-AV/overlayd/internal/interfaces"
	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/windows"
)

// hostPlatform returns the Win32 platform acting on this process's
// foreground window.
func hostPlatform(log logger.LoggerInterface) interfaces.Platform {
	return windows.NewPlatform(log, 0)
}

// installConsoleHandler stops the overlay when the console window is closed
// or the session ends.
func installConsoleHandler(log logger.LoggerInterface, stop func()) {
	err := windows.SetConsoleCtrlHandler(func(event string) bool {
		log.Debug("Received console control event", slog.String("type", event))
		log.Info("Shutting down after console control event")
		stop()

		return true
	})
	if err != nil {
		log.Warn("Failed to install console control handler", slog.Any("error", err))
	}
}

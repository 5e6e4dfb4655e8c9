//go:build !windows

package cmd

import (
	"github.com/Norgate-AV/overlayd/internal/input"
	"github.com/Norgate-AV/overlayd/internal/interfaces"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

func hostPlatform(logger.LoggerInterface) interfaces.Platform {
	return input.NopPlatform{}
}

func installConsoleHandler(logger.LoggerInterface, func()) {}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/overlayd/internal/config"
	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/version"
)

// RootCmd is the root command for the overlayd CLI application.
var RootCmd = &cobra.Command{
	Use:   "overlayd",
	Short: "overlayd - In-process overlay compositor",
	Long: "overlayd composites client window groups over a host application " +
		"and routes the host's mouse and keyboard input to them.",
	Version:      version.GetVersion(),
	Args:         cobra.NoArgs,
	RunE:         Execute,
	SilenceUsage: true, // Don't show usage on runtime errors
}

func init() {
	// Set custom version template to show full version info
	RootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// Add flags
	RootCmd.PersistentFlags().BoolP("verbose", "V", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolP("logs", "l", false, "print the current log file to stdout and exit")
	RootCmd.PersistentFlags().StringP("config", "c", "", "path to the config file (default $"+config.EnvConfigPath+" or %LOCALAPPDATA%\\overlayd\\config.yaml)")
}

// handleLogsFlag processes the --logs flag and exits if needed
func handleLogsFlag(cfg *Config, opts logger.LoggerOptions, exitFunc func(int)) error {
	if !cfg.ShowLogs {
		return nil
	}

	if err := logger.PrintLogFile(nil, opts); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logPath := logger.GetLogPath(opts)
			fmt.Fprintf(os.Stderr, "Log file does not exist: %s\n", logPath)
			exitFunc(1)
			return nil
		}

		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		exitFunc(1)
		return nil
	}

	exitFunc(0)
	return nil // Won't actually reach here due to exitFunc
}

// initializeLogger creates a logger from the loaded configuration
func initializeLogger(opts logger.LoggerOptions) (logger.LoggerInterface, error) {
	log, err := logger.NewLogger(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// runtimeContext holds what every command needs once started, and the hooks
// signal handlers use to stop it.
type runtimeContext struct {
	cfg      *config.Config
	log      logger.LoggerInterface
	exitFunc func(int) // Injectable for testing; defaults to os.Exit

	mu    sync.Mutex
	stops []func()
	sigCh chan os.Signal
}

// startup loads configuration, opens the log and installs signal handlers.
// It returns nil without error when --logs was handled.
func startup(cmd *cobra.Command) (*runtimeContext, error) {
	flags := NewConfigFromFlags(cmd)

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	opts := cfg.LoggerOptions(flags.Verbose)

	if flags.ShowLogs {
		return nil, handleLogsFlag(flags, opts, os.Exit)
	}

	log, err := initializeLogger(opts)
	if err != nil {
		return nil, err
	}

	log.Debug("Starting overlayd",
		slog.String("command", cmd.Name()),
		slog.String("version", version.GetFullVersion()),
	)
	log.Debug("Flags set",
		slog.Bool("verbose", flags.Verbose),
		slog.String("config", flags.ConfigPath),
	)

	rt := &runtimeContext{
		cfg:      cfg,
		log:      log,
		exitFunc: os.Exit,
	}

	setupSignalHandlers(rt)

	return rt, nil
}

// onStop registers fn to run when the process is asked to stop.
func (rt *runtimeContext) onStop(fn func()) {
	rt.mu.Lock()
	rt.stops = append(rt.stops, fn)
	rt.mu.Unlock()
}

func (rt *runtimeContext) stop() {
	rt.mu.Lock()
	stops := append([]func(){}, rt.stops...)
	rt.mu.Unlock()

	for _, fn := range stops {
		fn()
	}
}

func (rt *runtimeContext) close() {
	if rt.sigCh != nil {
		signal.Stop(rt.sigCh)
		close(rt.sigCh)
	}

	rt.log.Close()
}

// recoverPanic logs a panic and turns it into the command's error. It must
// be deferred directly.
func (rt *runtimeContext) recoverPanic(errp *error) {
	if r := recover(); r != nil {
		rt.log.Error("PANIC RECOVERED",
			slog.Any("panic", r),
			slog.String("stack", string(debug.Stack())),
		)

		fmt.Fprintf(os.Stderr, "\n*** PANIC: %v ***\n", r)
		fmt.Fprintf(os.Stderr, "Check log file for details\n")

		*errp = fmt.Errorf("panic: %v", r)
	}
}

// setupSignalHandlers configures console control and interrupt signal handlers.
// The first signal stops the running command gracefully; a second one exits.
func setupSignalHandlers(rt *runtimeContext) {
	installConsoleHandler(rt.log, rt.stop)

	rt.sigCh = make(chan os.Signal, 2)
	signal.Notify(rt.sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig, ok := <-rt.sigCh
		if !ok {
			return
		}

		rt.log.Debug("Received signal", slog.Any("signal", sig))
		rt.log.Info("Interrupt signal received, shutting down")
		rt.stop()

		if _, ok := <-rt.sigCh; ok {
			rt.log.Info("Second interrupt, exiting immediately")
			rt.exitFunc(130)
		}
	}()
}

// Execute runs the root command: it handles --logs and otherwise prints
// help.
func Execute(cmd *cobra.Command, args []string) error {
	flags := NewConfigFromFlags(cmd)
	if !flags.ShowLogs {
		return cmd.Help()
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}

	return handleLogsFlag(flags, cfg.LoggerOptions(flags.Verbose), os.Exit)
}

//go:build !nopreview

package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/overlayd/internal/preview"
	"github.com/Norgate-AV/overlayd/internal/version"
)

var previewCmd = &cobra.Command{
	Use:   "preview [scene.yaml]",
	Short: "Show a scene in a desktop window with live input routing",
	Long: "Opens a window standing in for the host application, composites the " +
		"scene on top of it and routes the window's mouse and keyboard input " +
		"through the overlay. The scene is reloaded whenever the file is saved.",
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Bool("no-watch", false, "do not reload the scene when the file changes")
	RootCmd.AddCommand(previewCmd)
	version.SetPreview()
}

func runPreview(cmd *cobra.Command, args []string) (err error) {
	rt, err := startup(cmd)
	if err != nil || rt == nil {
		return err
	}
	defer rt.close()
	defer rt.recoverPanic(&err)

	pc := rt.cfg.Preview
	renderer := preview.NewRenderer(rt.log, uint32(pc.Width), uint32(pc.Height))
	platform := preview.NewPlatform(rt.log, hostPlatform(rt.log))
	eng := newEngine(rt.log, rt.cfg, renderer, platform)

	if len(args) == 1 {
		if _, err := eng.loadScene(args[0]); err != nil {
			return err
		}

		if noWatch, _ := cmd.Flags().GetBool("no-watch"); !noWatch {
			if err := eng.watchScene(args[0]); err != nil {
				return err
			}
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt.onStop(cancel)
	supervisorDone := eng.start(ctx)

	opts := preview.Options{
		Width:  pc.Width,
		Height: pc.Height,
		Title:  pc.Title,
		Status: eng.status,
	}

	driver := preview.NewDriver(rt.log, eng.synth)
	game := preview.NewGame(ctx, rt.log, eng.graphics, renderer, driver, opts)

	runErr := preview.Run(game, opts)

	cancel()
	if err := <-supervisorDone; err != nil {
		rt.log.Debug("Supervisor stopped", slog.Any("error", err))
	}

	return runErr
}

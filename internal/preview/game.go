package preview

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/Norgate-AV/overlayd/internal/graphics"
	"github.com/Norgate-AV/overlayd/internal/logger"
)

// hostBackground stands in for the host application's own frame.
var hostBackground = color.RGBA{R: 0x2B, G: 0x30, B: 0x3A, A: 0xFF}

// Options configure the preview window.
type Options struct {
	Width  int
	Height int
	Title  string
	// Status returns a line printed in the corner of every frame.
	Status func() string
}

// Game implements ebiten.Game. Update replays input, Draw presents the
// overlay on top of a flat host frame.
type Game struct {
	ctx      context.Context
	log      logger.LoggerInterface
	graphics *graphics.Manager
	renderer *Renderer
	driver   *Driver
	status   func() string

	width  int
	height int
}

// NewGame wires a Game. The preview stops when ctx is done.
func NewGame(ctx context.Context, log logger.LoggerInterface, gm *graphics.Manager, renderer *Renderer, driver *Driver, opts Options) *Game {
	return &Game{
		ctx:      ctx,
		log:      log.With(slog.String("component", "preview")),
		graphics: gm,
		renderer: renderer,
		driver:   driver,
		status:   opts.Status,
	}
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	g.driver.Update()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(hostBackground)

	g.renderer.SetTarget(screen)
	g.graphics.BeforePresent()

	if g.status != nil {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nFPS: %.1f", g.status(), ebiten.ActualFPS()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.graphics.OnReset(uint32(outsideWidth), uint32(outsideHeight), ebiten.IsFullscreen())
		g.driver.Resize(outsideWidth, outsideHeight)
	}

	return outsideWidth, outsideHeight
}

// Run opens the preview window and blocks until it is closed or ctx is done.
func Run(game *Game, opts Options) error {
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	game.log.Info("Preview window opening",
		slog.Int("width", opts.Width),
		slog.Int("height", opts.Height),
	)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("preview failed: %w", err)
	}

	game.log.Info("Preview window closed")

	return nil
}

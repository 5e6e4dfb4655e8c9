package graphics

// Renderer draws sprites into the host's back buffer. Every method except
// QueueTextureRelease is called on the render thread only. RenderSprites
// releases queued textures before drawing.
type Renderer interface {
	TextureReleaser

	Init() bool
	RenderSprites(sprites []*Sprite)
	OnResize(width, height uint32, fullscreen bool)
}

// Backend names a renderer implementation.
type Backend string

const (
	BackendHeadless Backend = "headless"
	BackendPreview  Backend = "preview"
)

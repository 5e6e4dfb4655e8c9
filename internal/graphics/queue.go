package graphics

import "sync"

// TextureQueue collects textures released from arbitrary goroutines until
// the render thread drains it. Renderers embed it.
type TextureQueue struct {
	mu      sync.Mutex
	pending []Texture
}

// QueueTextureRelease schedules tex for release. Safe from any goroutine.
func (q *TextureQueue) QueueTextureRelease(tex Texture) {
	if tex == nil {
		return
	}

	q.mu.Lock()
	q.pending = append(q.pending, tex)
	q.mu.Unlock()
}

// ReleaseTextures hands every queued texture to release and empties the
// queue. Call it only from the render thread.
func (q *TextureQueue) ReleaseTextures(release func(Texture)) int {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, tex := range pending {
		release(tex)
	}

	return len(pending)
}

// Pending returns the number of textures waiting for release.
func (q *TextureQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

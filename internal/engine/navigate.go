package engine

// ZoomIn zooms one step anchored at the canvas point (x, y).
func (e *Engine) ZoomIn(x, y int) {
	e.zoomAt(true, x, y)
}

// ZoomOut zooms out one step anchored at the canvas point (x, y).
func (e *Engine) ZoomOut(x, y int) {
	e.zoomAt(false, x, y)
}

func (e *Engine) zoomAt(in bool, x, y int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.img == nil {
		return
	}

	old := e.zoom
	if in {
		if next := e.zoom * e.cfg.ZoomStep; next < e.cfg.MaxZoom {
			e.zoom = next
		}
	} else {
		if next := e.zoom / e.cfg.ZoomStep; next > e.cfg.MinZoom {
			e.zoom = next
		}
	}
	e.applyZoom()

	// An axis smaller than the canvas is centered; otherwise the point under
	// the pointer stays put.
	if e.dest.W < e.canvas.X {
		e.dest.X = (e.canvas.X - e.dest.W) / 2
	} else {
		next := e.dest.X - int(float64(x-e.dest.X)*(e.zoom/old-1))
		e.dest.X = clampToCanvasEdge(e.dest.X, next, e.canvas.X, e.dest.W)
	}
	if e.dest.H < e.canvas.Y {
		e.dest.Y = (e.canvas.Y - e.dest.H) / 2
	} else {
		next := e.dest.Y - int(float64(y-e.dest.Y)*(e.zoom/old-1))
		e.dest.Y = clampToCanvasEdge(e.dest.Y, next, e.canvas.Y, e.dest.H)
	}
	e.dirty = true
}

// Pan moves the image by (dx, dy) pixels. An axis larger than the canvas
// never exposes its edge; a smaller one does not move.
func (e *Engine) Pan(dx, dy int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.img == nil || (dx == 0 && dy == 0) {
		return
	}
	e.dest.X = clampToCanvasEdge(e.dest.X, e.dest.X+dx, e.canvas.X, e.dest.W)
	e.dest.Y = clampToCanvasEdge(e.dest.Y, e.dest.Y+dy, e.canvas.Y, e.dest.H)
	e.dirty = true
}

// ResetFit scales the image to fit the canvas again.
func (e *Engine) ResetFit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.img == nil {
		return
	}
	e.dest.W, e.dest.H = e.orig.X, e.orig.Y
	e.scaleToCanvas()
	e.dirty = true
}

// clampToCanvasEdge returns the new position of an image edge moving from
// cur to next. Images smaller than the canvas keep cur.
func clampToCanvasEdge(cur, next, canvasDim, imageDim int) int {
	switch {
	case imageDim < canvasDim:
		return cur
	case next > 0:
		return 0
	case next < canvasDim-imageDim:
		return canvasDim - imageDim
	default:
		return next
	}
}

package termimg

// Default cell dimensions in pixels when the terminal does not report them.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Window is the terminal size in cells and, when reported, in pixels.
type Window struct {
	Cols   int
	Rows   int
	Width  int
	Height int
}

// CellSize returns the pixel size of one cell, falling back to 8x16.
func (w Window) CellSize() (width, height int) {
	if w.Cols == 0 || w.Rows == 0 || w.Width == 0 || w.Height == 0 {
		return DefaultCellWidth, DefaultCellHeight
	}
	return w.Width / w.Cols, w.Height / w.Rows
}

// PixelSize returns the pixel size of cols x rows cells.
func (w Window) PixelSize(cols, rows int) (width, height int) {
	cw, ch := w.CellSize()
	return cols * cw, rows * ch
}

// CellSize queries the terminal cell size in pixels, falling back to 8x16.
func CellSize() (width, height int) {
	w, err := QueryWindow()
	if err != nil {
		return DefaultCellWidth, DefaultCellHeight
	}
	return w.CellSize()
}

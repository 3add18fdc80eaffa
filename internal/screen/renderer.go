package screen

import (
	"fmt"
	"strings"

	"github.com/nutshell-sh/nutshell/internal/domain"
	"github.com/nutshell-sh/nutshell/internal/render"
)

// Cell is one character cell of the viewport grid.
type Cell struct {
	Rune rune
	Attr render.Attribute
}

// Renderer paints attributed line segments into a fixed-size viewport
// and keeps scrolled-off lines on two stacks so the user can page
// through history that no longer fits on screen.
type Renderer struct {
	grid   [][]Cell
	above  []render.Line
	below  []render.Line
	banner string
	logger domain.Logger
	width  int
	height int
	y, x   int
}

// NewRenderer returns a renderer for a width x height viewport with an
// optional static banner on the first row.
func NewRenderer(width, height int, banner string, logger domain.Logger) *Renderer {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	r := &Renderer{banner: banner, logger: logger}
	r.Reinitialize(width, height)
	return r
}

// Size returns the viewport dimensions.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Cursor returns the tracked cursor position.
func (r *Renderer) Cursor() (y, x int) { return r.y, r.x }

// MoveCursor places the cursor, clamped to the viewport.
func (r *Renderer) MoveCursor(y, x int) {
	r.y = clamp(y, 0, r.height-1)
	r.x = clamp(x, 0, r.width-1)
}

// AboveLen reports how many lines are stacked above the viewport.
func (r *Renderer) AboveLen() int { return len(r.above) }

// BelowLen reports how many lines are stacked below the viewport.
func (r *Renderer) BelowLen() int { return len(r.below) }

// Reinitialize clears the grid and both scroll stacks, redraws the
// banner and parks the cursor below it. It is the resize recovery
// path and must always succeed.
func (r *Renderer) Reinitialize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r.width, r.height = width, height
	r.grid = make([][]Cell, height)
	for i := range r.grid {
		r.grid[i] = blankRow(width)
	}
	r.above = nil
	r.below = nil
	r.y, r.x = 0, 0
	if r.banner != "" {
		r.WriteLine(render.PlainLine(r.banner), true)
		r.MoveOrScrollDown()
	}
}

// RuneAt returns the rune in cell (y, x).
func (r *Renderer) RuneAt(y, x int) rune {
	if y < 0 || y >= r.height || x < 0 || x >= r.width {
		return ' '
	}
	return r.grid[y][x].Rune
}

// PutRune writes one attributed rune at (y, x) without moving the
// cursor.
func (r *Renderer) PutRune(y, x int, ch rune, attr render.Attribute) {
	if y < 0 || y >= r.height || x < 0 || x >= r.width {
		r.logger.Error("renderer", fmt.Sprintf("put %q at (%d,%d): out of viewport %dx%d", ch, y, x, r.width, r.height))
		return
	}
	r.grid[y][x] = Cell{Rune: ch, Attr: attr}
}

// InsertRune shifts row y right from column x and places ch there,
// dropping the cell pushed past the right edge.
func (r *Renderer) InsertRune(y, x int, ch rune, attr render.Attribute) {
	if y < 0 || y >= r.height || x < 0 || x >= r.width {
		return
	}
	row := r.grid[y]
	copy(row[x+1:], row[x:r.width-1])
	row[x] = Cell{Rune: ch, Attr: attr}
}

// DeleteRune removes the cell at (y, x), shifting the rest of the row
// left and blanking the last column.
func (r *Renderer) DeleteRune(y, x int) {
	if y < 0 || y >= r.height || x < 0 || x >= r.width {
		return
	}
	row := r.grid[y]
	copy(row[x:], row[x+1:])
	row[r.width-1] = Cell{Rune: ' '}
}

// ClearToEOL blanks row y from column x to the right edge.
func (r *Renderer) ClearToEOL(y, x int) {
	if y < 0 || y >= r.height {
		return
	}
	for i := clamp(x, 0, r.width); i < r.width; i++ {
		r.grid[y][i] = Cell{Rune: ' '}
	}
}

// ClearLine blanks the whole row y.
func (r *Renderer) ClearLine(y int) { r.ClearToEOL(y, 0) }

// WriteLine writes segments left to right from the cursor, soft
// wrapping at the right edge. With advance set the cursor moves to the
// next row afterwards, scrolling at the bottom edge.
func (r *Renderer) WriteLine(line render.Line, advance bool) {
	r.WriteLineAt(r.y, r.x, line, advance)
}

// WriteLineAt writes segments starting at (y, x). See WriteLine.
func (r *Renderer) WriteLineAt(y, x int, line render.Line, advance bool) {
	r.MoveCursor(y, x)
	for _, seg := range line {
		for _, ch := range seg.Text {
			if r.x >= r.width {
				r.MoveOrScrollDown()
			}
			r.grid[r.y][r.x] = Cell{Rune: ch, Attr: seg.Attr}
			r.x++
		}
	}
	if r.x >= r.width {
		r.x = r.width - 1
	}
	if advance {
		r.MoveOrScrollDown()
	}
}

// WriteLines writes each line with the cursor advancing after it.
func (r *Renderer) WriteLines(lines []render.Line) {
	for _, line := range lines {
		r.WriteLine(line, true)
	}
}

// MoveOrScrollDown moves the cursor to the start of the next row,
// scrolling the viewport when the cursor is already on the last one.
func (r *Renderer) MoveOrScrollDown() {
	if r.y < r.height-1 {
		r.y++
		r.x = 0
		return
	}
	r.shiftUp()
	r.y, r.x = r.height-1, 0
}

// ScrollUp restores one line from the above stack, pushing the bottom
// row onto the below stack. Reports false at the top of history.
func (r *Renderer) ScrollUp() bool {
	if len(r.above) == 0 {
		return false
	}
	r.below = append(r.below, r.ScrapeLine(r.height-1))
	r.shiftDown()
	line := r.above[len(r.above)-1]
	r.above = r.above[:len(r.above)-1]
	r.WriteLineAt(0, 0, line, false)
	r.MoveCursor(r.height-1, 0)
	return true
}

// ScrollDown restores one line from the below stack, pushing the top
// row onto the above stack. Reports false at the bottom of history.
func (r *Renderer) ScrollDown() bool {
	if len(r.below) == 0 {
		return false
	}
	r.shiftUp()
	line := r.below[len(r.below)-1]
	r.below = r.below[:len(r.below)-1]
	r.WriteLineAt(r.height-1, 0, line, false)
	r.MoveCursor(r.height-1, 0)
	return true
}

// ScrapeLine reconstructs row y as attributed segments, one segment
// per attribute run, with trailing blanks trimmed.
func (r *Renderer) ScrapeLine(y int) render.Line {
	if y < 0 || y >= r.height {
		return nil
	}
	row := r.grid[y]
	end := r.width
	for end > 0 && row[end-1].Rune == ' ' && row[end-1].Attr == render.Default {
		end--
	}
	var line render.Line
	var b strings.Builder
	attr := render.Default
	for x := 0; x < end; x++ {
		if x == 0 {
			attr = row[x].Attr
		}
		if row[x].Attr != attr {
			line = append(line, render.Segment{Text: b.String(), Attr: attr})
			b.Reset()
			attr = row[x].Attr
		}
		b.WriteRune(row[x].Rune)
	}
	if b.Len() > 0 {
		line = append(line, render.Segment{Text: b.String(), Attr: attr})
	}
	return line
}

// View renders the grid to a string, painting each attribute run with
// the supplied function.
func (r *Renderer) View(paint func(text string, attr render.Attribute) string) string {
	var b strings.Builder
	for y := 0; y < r.height; y++ {
		if y > 0 {
			b.WriteString("\n")
		}
		var run strings.Builder
		attr := r.grid[y][0].Attr
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if paint != nil {
				b.WriteString(paint(run.String(), attr))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < r.width; x++ {
			if r.grid[y][x].Attr != attr {
				flush()
				attr = r.grid[y][x].Attr
			}
			run.WriteRune(r.grid[y][x].Rune)
		}
		flush()
	}
	return b.String()
}

// shiftUp scrolls the grid content up one row, saving the top row on
// the above stack and blanking the freed bottom row.
func (r *Renderer) shiftUp() {
	r.above = append(r.above, r.ScrapeLine(0))
	copy(r.grid, r.grid[1:])
	r.grid[r.height-1] = blankRow(r.width)
}

// shiftDown scrolls the grid content down one row, blanking the freed
// top row. The caller saves the bottom row first.
func (r *Renderer) shiftDown() {
	for y := r.height - 1; y > 0; y-- {
		r.grid[y] = r.grid[y-1]
	}
	r.grid[0] = blankRow(r.width)
}

func blankRow(width int) []Cell {
	row := make([]Cell, width)
	for i := range row {
		row[i].Rune = ' '
	}
	return row
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

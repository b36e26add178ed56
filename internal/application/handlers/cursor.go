package handlers

// NavKey is a navigation key over the suggestion list.
type NavKey string

// Navigation keys.
const (
	KeyDown  NavKey = "ArrowDown"
	KeyUp    NavKey = "ArrowUp"
	KeyEnter NavKey = "Enter"
)

// Cursor tracks the highlighted entry of a list of n items. Movement wraps
// around in both directions; -1 means nothing is highlighted.
type Cursor struct {
	n      int
	active int
}

// NewCursor returns a cursor over n items with nothing highlighted.
func NewCursor(n int) Cursor {
	return Cursor{n: n, active: -1}
}

// Down highlights the next item.
func (c *Cursor) Down() {
	if c.n == 0 {
		return
	}
	c.active = (c.active + 1) % c.n
}

// Up highlights the previous item.
func (c *Cursor) Up() {
	if c.n == 0 {
		return
	}
	c.active = (c.active - 1 + c.n) % c.n
}

// Active returns the highlighted index or -1.
func (c Cursor) Active() int {
	return c.active
}

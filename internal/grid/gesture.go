package grid

// DragThreshold is how far the pointer must travel between press and release,
// in either axis, before the gesture counts as a drag instead of a click.
const DragThreshold = 5

// Tracker separates clicks from drags. Card navigation and grid-item
// navigation are suppressed while a gesture is a drag, so a drop never also
// fires the click it ended on.
type Tracker struct {
	startX, startY int
	threshold      int
	active         bool
	drag           bool
}

// NewTracker returns a tracker with the default threshold.
func NewTracker() *Tracker {
	return &Tracker{threshold: DragThreshold}
}

// SetThreshold overrides the movement threshold; cell-based surfaces use 1.
func (t *Tracker) SetThreshold(n int) {
	if n > 0 {
		t.threshold = n
	}
}

// Start begins a gesture at the given position.
func (t *Tracker) Start(x, y int) {
	t.startX, t.startY = x, y
	t.active = true
	t.drag = false
}

// Move updates the gesture; crossing the threshold makes it a drag for the
// rest of the gesture.
func (t *Tracker) Move(x, y int) {
	if !t.active {
		return
	}
	if abs(x-t.startX) > t.threshold || abs(y-t.startY) > t.threshold {
		t.drag = true
	}
}

// IsDrag reports whether the current gesture crossed the threshold.
func (t *Tracker) IsDrag() bool {
	return t.active && t.drag
}

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool {
	return t.active
}

// End finishes the gesture and reports whether it was a drag.
func (t *Tracker) End() bool {
	wasDrag := t.IsDrag()
	t.active = false
	t.drag = false
	return wasDrag
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

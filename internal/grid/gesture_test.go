package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_ClickStaysUnderThreshold(t *testing.T) {
	tr := NewTracker()
	tr.Start(100, 100)
	tr.Move(102, 103)
	assert.False(t, tr.IsDrag(), "movement under the threshold is a click")
	assert.False(t, tr.End())
}

func TestTracker_DragCrossesThreshold(t *testing.T) {
	tr := NewTracker()
	tr.Start(100, 100)
	tr.Move(100, 106)
	assert.True(t, tr.IsDrag())
	assert.True(t, tr.End(), "End reports the gesture kind")
	assert.False(t, tr.Active(), "End resets the tracker")
}

func TestTracker_DragIsSticky(t *testing.T) {
	// Once past the threshold the gesture stays a drag even if the pointer
	// returns to the start, so the release never counts as a click.
	tr := NewTracker()
	tr.Start(100, 100)
	tr.Move(110, 100)
	tr.Move(100, 100)
	assert.True(t, tr.IsDrag())
}

func TestTracker_CustomThreshold(t *testing.T) {
	tr := NewTracker()
	tr.SetThreshold(1)
	tr.Start(0, 0)
	tr.Move(1, 0)
	assert.False(t, tr.IsDrag(), "movement must exceed the threshold")
	tr.Move(2, 0)
	assert.True(t, tr.IsDrag())
}

func TestTracker_MoveWithoutStart(t *testing.T) {
	tr := NewTracker()
	tr.Move(50, 50)
	assert.False(t, tr.IsDrag())
	assert.False(t, tr.Active())
}

package reader

import "sync"

// SwipeThresholdPx is the horizontal displacement a drag must exceed to
// count as a page-turn gesture.
const SwipeThresholdPx = 48.0

// PageChangeFunc is called after the cursor moves so the new resume
// position can be persisted.
type PageChangeFunc func(pageIndex int)

// Navigator tracks the current page cursor and translates gestures into
// page turns.
type Navigator struct {
	mu           sync.Mutex
	current      int
	total        int
	rtl          bool
	onPageChange PageChangeFunc
}

// NewNavigator creates a Navigator positioned at startPage.
// An out-of-range start position falls back to page zero.
func NewNavigator(total, startPage int, rtl bool, onPageChange PageChangeFunc) *Navigator {
	if startPage < 0 || startPage >= total {
		startPage = 0
	}
	return &Navigator{
		current:      startPage,
		total:        total,
		rtl:          rtl,
		onPageChange: onPageChange,
	}
}

// GoTo moves the cursor to pageIndex. Out-of-range indices are a no-op.
// Returns true if the cursor moved.
func (n *Navigator) GoTo(pageIndex int) bool {
	n.mu.Lock()
	if pageIndex < 0 || pageIndex >= n.total || pageIndex == n.current {
		n.mu.Unlock()
		return false
	}
	n.current = pageIndex
	cb := n.onPageChange
	n.mu.Unlock()

	if cb != nil {
		cb(pageIndex)
	}
	return true
}

// Next advances one page.
func (n *Navigator) Next() bool {
	return n.GoTo(n.CurrentPage() + 1)
}

// Previous goes back one page.
func (n *Navigator) Previous() bool {
	return n.GoTo(n.CurrentPage() - 1)
}

// JumpToPage accepts 1-based user input, validates the range, and moves
// the cursor. Invalid input is a no-op.
func (n *Navigator) JumpToPage(oneBased int) bool {
	if oneBased < 1 || oneBased > n.TotalPages() {
		return false
	}
	return n.GoTo(oneBased - 1)
}

// HandleSwipe translates a horizontal pointer displacement into a single
// page turn. A leftward drag (negative dx) advances in left-to-right
// presentation; direction is mirrored for right-to-left.
func (n *Navigator) HandleSwipe(dx float64) bool {
	if dx > -SwipeThresholdPx && dx < SwipeThresholdPx {
		return false
	}

	forward := dx < 0
	if n.rtl {
		forward = !forward
	}

	if forward {
		return n.Next()
	}
	return n.Previous()
}

// CurrentPage returns the zero-indexed cursor position.
func (n *Navigator) CurrentPage() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// TotalPages returns the page count.
func (n *Navigator) TotalPages() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.total
}

// RTL reports whether the presentation is mirrored right-to-left.
func (n *Navigator) RTL() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rtl
}

// SetRTL flips the presentation direction.
func (n *Navigator) SetRTL(rtl bool) {
	n.mu.Lock()
	n.rtl = rtl
	n.mu.Unlock()
}

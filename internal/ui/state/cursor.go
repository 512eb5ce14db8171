package state

// moveCursorTo puts the cursor on idx, clamped to the items, and reports
// whether it moved.
func (l *Level) moveCursorTo(idx int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(idx, 0, len(l.Items)-1)
	return l.Cursor != old
}

// MoveCursorUp moves the cursor up one item, wrapping to the end.
func (l *Level) MoveCursorUp() bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	l.Cursor = (clamp(l.Cursor, 0, n-1) - 1 + n) % n
	return n > 1
}

// MoveCursorDown moves the cursor down one item, wrapping to the start.
func (l *Level) MoveCursorDown() bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	l.Cursor = (clamp(l.Cursor, 0, n-1) + 1) % n
	return n > 1
}

func (l *Level) MoveCursorHome() bool { return l.moveCursorTo(0) }

func (l *Level) MoveCursorEnd() bool { return l.moveCursorTo(len(l.Items) - 1) }

// MoveCursorPageUp moves the cursor up by one page of maxVisible rows,
// stopping at the first item.
func (l *Level) MoveCursorPageUp(maxVisible int) bool {
	return l.moveCursorTo(clamp(l.Cursor, 0, len(l.Items)) - l.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by one page, stopping at the
// last item.
func (l *Level) MoveCursorPageDown(maxVisible int) bool {
	return l.moveCursorTo(clamp(l.Cursor, 0, len(l.Items)) + l.pageSize(maxVisible))
}

// pageSize is maxVisible, or the whole list when the height is unknown or
// larger than the list.
func (l *Level) pageSize(maxVisible int) int {
	total := len(l.Items)
	if maxVisible <= 0 || maxVisible > total {
		return total
	}
	return maxVisible
}

// EnsureCursorVisible scrolls the viewport the least amount that keeps the
// cursor within maxVisible rows. A non-positive maxVisible shows everything.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := clamp(l.ViewportOffset, 0, maxOffset)
	switch {
	case l.Cursor < offset:
		offset = l.Cursor
	case l.Cursor >= offset+maxVisible:
		offset = clamp(l.Cursor-maxVisible+1, 0, maxOffset)
	}
	l.ViewportOffset = offset
}

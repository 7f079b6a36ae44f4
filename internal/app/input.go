package app

// cursorGate holds back pointer samples until the cursor has actually
// moved, so the renderer keeps its centered default instead of being
// pulled toward whatever position the host reports before any input.
type cursorGate struct {
	seen           bool
	moved          bool
	startX, startY int
}

// admit reports whether the sample at (x, y) should reach the renderer
func (g *cursorGate) admit(x, y int) bool {
	if !g.seen {
		g.seen = true
		g.startX, g.startY = x, y
		return false
	}
	if !g.moved && (x != g.startX || y != g.startY) {
		g.moved = true
	}
	return g.moved
}

// sizeTracker remembers the last size the host reported and the last size
// applied to the surface.
type sizeTracker struct {
	reportedW, reportedH int
	appliedW, appliedH   int
}

func (s *sizeTracker) report(w, h int) {
	s.reportedW, s.reportedH = w, h
}

// pending returns the size to apply, if it changed since the last apply
func (s *sizeTracker) pending() (int, int, bool) {
	if s.reportedW == s.appliedW && s.reportedH == s.appliedH {
		return 0, 0, false
	}
	s.appliedW, s.appliedH = s.reportedW, s.reportedH
	return s.appliedW, s.appliedH, true
}

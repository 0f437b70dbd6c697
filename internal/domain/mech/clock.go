package mech

// Clock is a bounded progress counter representing building narrative
// or mechanical pressure. It fires exactly once when Current reaches
// Max and cannot refire without an explicit Reset.
type Clock struct {
	Name    string `json:"name"`
	Current int    `json:"current"`
	Max     int    `json:"max"`
	Advance string `json:"advance_meaning,omitempty"`
	Regress string `json:"regress_meaning,omitempty"`
	Fired   bool   `json:"fired"`
}

func NewClock(name string, max int) *Clock {
	if max < 1 {
		max = 1
	}
	return &Clock{Name: name, Max: max}
}

// Tick advances the clock by n segments, clamped to Max. It returns
// true only on the call that first fills the clock.
func (c *Clock) Tick(n int) (fired bool) {
	if n <= 0 {
		return false
	}
	c.Current += n
	if c.Current > c.Max {
		c.Current = c.Max
	}
	if c.Current == c.Max && !c.Fired {
		c.Fired = true
		return true
	}
	return false
}

// Untick regresses the clock by n segments, clamped to zero. A fired
// clock stays fired; only Reset re-arms it.
func (c *Clock) Untick(n int) {
	if n <= 0 {
		return
	}
	c.Current -= n
	if c.Current < 0 {
		c.Current = 0
	}
}

// Reset empties the clock and re-arms firing.
func (c *Clock) Reset() {
	c.Current = 0
	c.Fired = false
}

// Full reports whether the clock has filled.
func (c *Clock) Full() bool {
	return c.Current >= c.Max
}

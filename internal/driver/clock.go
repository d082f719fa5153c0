package driver

// Clock is the simulation's time axis, grounded on the teacher's
// small value-struct Config style rather than the original's TimeSim
// class: one struct, two tiny methods, no hidden state.
type Clock struct {
	Current float64
	Step    float64
	End     float64
}

// Done reports whether the simulation has reached its end time.
func (c *Clock) Done() bool { return c.Current >= c.End }

// Advance moves the clock forward by one step.
func (c *Clock) Advance() { c.Current += c.Step }

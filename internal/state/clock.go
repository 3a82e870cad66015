package state

// Clock hands out board-unique ids. It only moves forward, so ids stay
// stable across save/load cycles and history restores.
type Clock struct {
	counter ID
}

// Tick returns the next id.
func (c *Clock) Tick() ID {
	c.counter++
	return c.counter
}

// Update makes sure future ticks stay above an id seen elsewhere.
func (c *Clock) Update(seen ID) {
	if seen > c.counter {
		c.counter = seen
	}
}

// Last is the most recently issued id (0 if none).
func (c *Clock) Last() ID { return c.counter }

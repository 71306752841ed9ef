package editor

// IDGenerator hands out question ids for one authoring session.
// Ids are pre-incremented from zero and never reused until Reset.
type IDGenerator struct {
	last int
}

// Next returns the next id in the sequence.
func (g *IDGenerator) Next() int {
	g.last++
	return g.last
}

// Reset starts the sequence over. Only call it after the whole collection has been cleared.
func (g *IDGenerator) Reset() {
	g.last = 0
}

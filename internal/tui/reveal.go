package tui

// Reveal is a cooperative, time-sliced text disclosure: given a fully-known
// final string it exposes an increasing prefix, one character per step,
// until everything is visible. It carries no correctness contract beyond
// eventually reaching the full text; the owning view drops stale ticks via
// its generation counter, so an abandoned reveal can never corrupt newer
// state.
type Reveal struct {
	source []rune
	pos    int
}

// NewReveal starts a reveal over the final text with nothing visible yet.
func NewReveal(text string) *Reveal {
	return &Reveal{source: []rune(text)}
}

// Step discloses one more character and reports whether the reveal is done.
func (r *Reveal) Step() bool {
	if r.pos < len(r.source) {
		r.pos++
	}
	return r.Done()
}

// Visible returns the currently disclosed prefix: after k steps, exactly
// the first k characters of the source.
func (r *Reveal) Visible() string {
	return string(r.source[:r.pos])
}

// Done reports whether the full text is visible.
func (r *Reveal) Done() bool {
	return r.pos >= len(r.source)
}

// Len returns the total number of steps the reveal needs.
func (r *Reveal) Len() int {
	return len(r.source)
}

package pipeline

import "github.com/jonboulle/clockwork"

// SetClock replaces the pipeline's time source in tests.
func (p *Pipeline) SetClock(c clockwork.Clock) { p.clock = c }

/*
Package determinism pins the sources of non-determinism a run would
otherwise depend on — wall-clock time and randomness — behind a single
context, and provides the record/replay cassettes and snapshot
normalizers that let a test or an operator reproduce a run byte-for-byte.
*/
package determinism

import (
	"math/rand"
	"time"
)

// Context pins RNG and, optionally, now() for one run. Every component
// that would otherwise call time.Now() or math/rand's global source
// takes a *Context instead, the same way pkg/timeutil's backoff helpers
// take an explicit rand.Rand rather than reaching for the package-level
// generator.
type Context struct {
	rng        *rand.Rand
	frozenTime *time.Time
}

func NewContext(seed int64, frozenTime *time.Time) *Context {
	return &Context{
		rng:        rand.New(rand.NewSource(seed)),
		frozenTime: frozenTime,
	}
}

// Now returns the frozen time if one was configured, else the wall clock.
func (c *Context) Now() time.Time {
	if c.frozenTime != nil {
		return *c.frozenTime
	}
	return time.Now()
}

// Rand returns the run's seeded generator. Callers must not keep a
// separate math/rand source alive alongside it, or replays stop being
// deterministic.
func (c *Context) Rand() *rand.Rand {
	return c.rng
}

// Package jobid generates the human-readable identifiers printed on repair
// tickets, e.g. FE482913057.
package jobid

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// Generator builds identifiers as prefix + last six digits of the current
// epoch-millisecond timestamp + a zero-padded three digit random number.
// Uniqueness is probabilistic; callers rely on the store's unique constraint.
type Generator struct {
	prefix string
	now    func() time.Time
	intn   func(n int) int
}

func New(prefix string) *Generator {
	return &Generator{prefix: prefix, now: time.Now, intn: rand.IntN}
}

// Next returns a new identifier.
func (g *Generator) Next() string {
	ts := strconv.FormatInt(g.now().UnixMilli(), 10)
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}

	return fmt.Sprintf("%s%s%03d", g.prefix, ts, g.intn(1000))
}

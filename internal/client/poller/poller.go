// Package poller watches the loan-application list and raises one
// aggregated notification per polling tick that found new items.
package poller

import (
	"context"
	"log"
	"time"
)

// Fetch returns the IDs of all applications currently on the server.
type Fetch func(ctx context.Context) ([]uint, error)

// Notify receives the number of applications that appeared since the
// previous successful tick.
type Notify func(count int)

// Poller keeps a seen-ID set and diffs it against each fetch. The first
// successful fetch only primes the set: items already on the server when
// the poller starts are not news. Failed fetches leave the set untouched
// so a recovered backend does not produce a false burst.
type Poller struct {
	fetch    Fetch
	notify   Notify
	interval time.Duration
	logf     func(format string, args ...interface{})

	seen   map[uint]struct{}
	primed bool
}

func New(interval time.Duration, fetch Fetch, notify Notify) *Poller {
	return &Poller{
		fetch:    fetch,
		notify:   notify,
		interval: interval,
		logf:     log.Printf,
		seen:     make(map[uint]struct{}),
	}
}

// SetLogf replaces the error logger, mainly for tests.
func (p *Poller) SetLogf(logf func(format string, args ...interface{})) {
	p.logf = logf
}

// Run polls until ctx is cancelled or done closes. Ticks run inline in
// the loop; a fetch outlasting the interval simply drops the elapsed
// ticks rather than stacking requests.
func (p *Poller) Run(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	ids, err := p.fetch(ctx)
	if err != nil {
		p.logf("⚠️ Application poll failed: %v", err)
		return
	}

	current := make(map[uint]struct{}, len(ids))
	fresh := 0
	for _, id := range ids {
		current[id] = struct{}{}
		if _, ok := p.seen[id]; !ok {
			fresh++
		}
	}

	wasPrimed := p.primed
	p.seen = current
	p.primed = true

	if wasPrimed && fresh > 0 {
		p.notify(fresh)
	}
}

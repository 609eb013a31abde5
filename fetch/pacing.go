package fetch

import (
	"sync"
	"time"
)

// Pacing policy: every blocking signal widens the shared extra delay, every
// usable response narrows it. The caps keep a burst of 429s from pushing the
// run into minutes-long sleeps.
const (
	paceEaseStep = 300 * time.Millisecond

	paceChallengeStep = 500 * time.Millisecond
	paceChallengeCap  = 10 * time.Second

	paceRateLimitStep = 2 * time.Second
	paceRateLimitCap  = 15 * time.Second

	paceForbiddenStep = 1500 * time.Millisecond
	paceForbiddenCap  = 12 * time.Second
)

// Pacer is the process-wide adaptive pacing state. It is shared by every
// concurrent fetch sequence, so all access is serialized behind a mutex.
// Deliberately ephemeral: a restart resets it, so stale pacing from a
// previous run cannot bias a fresh one.
type Pacer struct {
	mu       sync.Mutex
	extra    time.Duration
	requests int64
}

// NewPacer returns a pacer with zero extra delay.
func NewPacer() *Pacer {
	return &Pacer{}
}

// Extra returns the current extra delay added to every request's base delay.
func (p *Pacer) Extra() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.extra
}

// Requests returns the number of requests observed so far.
func (p *Pacer) Requests() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests
}

// CountRequest records one issued request.
func (p *Pacer) CountRequest() {
	p.mu.Lock()
	p.requests++
	p.mu.Unlock()
}

// Observe adjusts the extra delay for one attempt classification and returns
// the new value. Transport failures are observed elsewhere and do not touch
// pacing state.
func (p *Pacer) Observe(class Classification) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch class {
	case ClassUsable:
		p.extra -= paceEaseStep
		if p.extra < 0 {
			p.extra = 0
		}
	case ClassChallenge:
		p.extra = escalate(p.extra, paceChallengeStep, paceChallengeCap)
	case ClassRateLimited:
		p.extra = escalate(p.extra, paceRateLimitStep, paceRateLimitCap)
	case ClassForbidden:
		p.extra = escalate(p.extra, paceForbiddenStep, paceForbiddenCap)
	}
	return p.extra
}

func escalate(current, step, ceiling time.Duration) time.Duration {
	current += step
	if current > ceiling {
		return ceiling
	}
	return current
}

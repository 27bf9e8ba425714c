package reconcile

import (
	"sort"
	"sync"
)

// Collector accumulates outcomes from concurrent workers.
type Collector struct {
	mu        sync.Mutex
	outcomes  []Outcome
	counts    map[Disposition]int
	onOutcome func(Outcome)
}

// NewCollector creates an empty collector. onOutcome may be nil.
func NewCollector(onOutcome func(Outcome)) *Collector {
	return &Collector{
		counts:    make(map[Disposition]int, len(Dispositions)),
		onOutcome: onOutcome,
	}
}

// Record appends one outcome.
func (c *Collector) Record(o Outcome) {
	c.mu.Lock()
	c.outcomes = append(c.outcomes, o)
	c.counts[o.Disposition]++
	c.mu.Unlock()

	if c.onOutcome != nil {
		c.onOutcome(o)
	}
}

// Fill copies the recorded outcomes, sorted by position, and the counts into s.
func (c *Collector) Fill(s *Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcomes := make([]Outcome, len(c.outcomes))
	copy(outcomes, c.outcomes)
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Position < outcomes[j].Position
	})

	counts := make(map[Disposition]int, len(Dispositions))
	for _, d := range Dispositions {
		counts[d] = c.counts[d]
	}

	s.Outcomes = outcomes
	s.Counts = counts
	s.Total = len(outcomes)
}

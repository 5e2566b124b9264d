package scraper

import "sync"

// Quota bounds how many listings one crawl may collect. LIST pages reserve
// slots for the detail links they enqueue; DETAIL requests commit or release
// their slot. Collected never exceeds the maximum.
type Quota struct {
	mu        sync.Mutex
	max       int
	collected int
	pending   int
}

func NewQuota(max int) *Quota {
	if max < 0 {
		max = 0
	}
	return &Quota{max: max}
}

// Reserve grants up to n pending slots and returns how many were granted.
func (q *Quota) Reserve(n int) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	free := q.max - q.collected - q.pending
	if n > free {
		n = free
	}
	if n < 0 {
		n = 0
	}
	q.pending += n
	return n
}

// Commit consumes one pending slot and counts a collected listing. It reports
// false, counting nothing, once the maximum has been reached.
func (q *Quota) Commit() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pending > 0 {
		q.pending--
	}
	if q.collected >= q.max {
		return false
	}
	q.collected++
	return true
}

// Release gives back a pending slot whose request produced no listing.
func (q *Quota) Release() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pending > 0 {
		q.pending--
	}
}

// Remaining is the number of slots neither collected nor reserved.
func (q *Quota) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.max - q.collected - q.pending
}

// Reached reports whether the maximum has been collected.
func (q *Quota) Reached() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.collected >= q.max
}

func (q *Quota) Collected() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.collected
}

func (q *Quota) Max() int {
	return q.max
}

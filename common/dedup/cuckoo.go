package dedup

import (
	"sync"
	"time"

	"github.com/seiflotfy/cuckoofilter"
)

// NewCuckoo returns a filter that forgets sightings after roughly two
// intervals, rotating a pair of cuckoo pools.
func NewCuckoo(interval time.Duration) Filter {
	return &cuckooFilter{interval: interval}
}

type cuckooFilter struct {
	access   sync.Mutex
	poolA    *cuckoo.Filter
	poolB    *cuckoo.Filter
	poolSwap bool
	lastSwap time.Time
	interval time.Duration
}

func (f *cuckooFilter) Check(sum []byte) bool {
	const defaultCapacity = 100000

	f.access.Lock()
	defer f.access.Unlock()

	now := time.Now()
	if f.lastSwap.IsZero() {
		f.lastSwap = now
		f.poolA = cuckoo.NewFilter(defaultCapacity)
		f.poolB = cuckoo.NewFilter(defaultCapacity)
	}

	if now.Sub(f.lastSwap) >= f.interval {
		if f.poolSwap {
			f.poolA.Reset()
		} else {
			f.poolB.Reset()
		}
		f.poolSwap = !f.poolSwap
		f.lastSwap = now
	}

	return f.poolA.InsertUnique(sum) && f.poolB.InsertUnique(sum)
}

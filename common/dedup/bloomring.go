package dedup

import (
	"sync"

	"github.com/v2fly/ss-bloomring"
)

// Sized for about a million remembered sightings, dropped a slot at a
// time as the ring rotates.
const (
	bloomSlots             = 10
	bloomCapacity          = 1e6
	bloomFalsePositiveRate = 1e-6
)

// NewBloomRing returns a filter with fixed memory and no interval
// knob: once the ring fills, the oldest slot of sightings is forgotten
// to make room.
func NewBloomRing() Filter {
	return &bloomRingFilter{BloomRing: ss_bloomring.NewBloomRing(bloomSlots, bloomCapacity, bloomFalsePositiveRate)}
}

type bloomRingFilter struct {
	sync.Mutex
	*ss_bloomring.BloomRing
}

func (f *bloomRingFilter) Check(sum []byte) bool {
	f.Lock()
	defer f.Unlock()
	if f.Test(sum) {
		return false
	}
	f.Add(sum)
	return true
}

package memory

import (
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
)

// FindClosestID returns the id with the smallest absolute distance to
// target. On a tie the record seen first in scan order wins. The second
// result is false when the store is empty.
func FindClosestID[K types.Integer](s *Store[K], target K) (K, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var closest K
	var minDistance uint64
	found := false
	s.scan(func(r *model.Record[K]) bool {
		d := distance(int64(r.ID()), int64(target))
		if !found || d < minDistance {
			closest, minDistance, found = r.ID(), d, true
		}
		return true
	})
	return closest, found
}

// distance is |a-b| computed without overflowing int64
func distance(a, b int64) uint64 {
	if a >= b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}

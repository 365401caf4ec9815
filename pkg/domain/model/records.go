package model

import (
	"github.com/secmon-lab/trio/pkg/domain/types"
)

// Records is an ordered sequence of records, typically in scan order.
// Unlike a Store it may hold the same identifier more than once, e.g. when
// read back from hand-edited text.
type Records[K types.Identifier] []*Record[K]

// IDs returns the identifiers in sequence order
func (rs Records[K]) IDs() []K {
	ids := make([]K, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.id)
	}
	return ids
}

// Dedupe drops every record whose identifier already appeared earlier in
// the sequence. It returns the compacted sequence and the number removed.
func (rs Records[K]) Dedupe() (Records[K], int) {
	seen := make(map[K]struct{}, len(rs))
	result := make(Records[K], 0, len(rs))
	for _, r := range rs {
		if _, ok := seen[r.id]; ok {
			continue
		}
		seen[r.id] = struct{}{}
		result = append(result, r)
	}
	return result, len(rs) - len(result)
}

// Clone deep-copies every record
func (rs Records[K]) Clone() Records[K] {
	copied := make(Records[K], len(rs))
	for i, r := range rs {
		copied[i] = r.Clone()
	}
	return copied
}

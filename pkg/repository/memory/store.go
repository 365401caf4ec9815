package memory

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
)

// Store is an in-memory dictionary of records keyed by K.
//
// Records are kept in an insertion-ordered map. Scan order, used by every
// operation that returns a sequence or breaks ties, is newest first. All
// methods take the same lock, so a Store is safe for concurrent use.
type Store[K types.Identifier] struct {
	mu      sync.RWMutex
	records *orderedmap.OrderedMap[K, *model.Record[K]]
}

func New[K types.Identifier]() *Store[K] {
	return &Store[K]{
		records: orderedmap.NewOrderedMap[K, *model.Record[K]](),
	}
}

// scan calls fn for every record, newest first, until fn returns false.
// Caller must hold the lock.
func (s *Store[K]) scan(fn func(r *model.Record[K]) bool) {
	for el := s.records.Back(); el != nil; el = el.Prev() {
		if !fn(el.Value) {
			return
		}
	}
}

// Insert adds a new record. An identifier that is already present is left
// untouched and Insert returns false.
func (s *Store[K]) Insert(id K, description, briefing string) (bool, error) {
	record, err := model.NewRecord(id, description, briefing)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(record), nil
}

func (s *Store[K]) insert(record *model.Record[K]) bool {
	if _, exists := s.records.Get(record.ID()); exists {
		return false
	}
	s.records.Set(record.ID(), record)
	return true
}

// Remove deletes the record and reports whether it existed
func (s *Store[K]) Remove(id K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.records.Delete(id)
}

// Get returns a copy of the record, or false if the id is unknown
func (s *Store[K]) Get(id K) (*model.Record[K], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records.Get(id)
	if !exists {
		return nil, false
	}
	return record.Clone(), true
}

func (s *Store[K]) Contains(id K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.records.Get(id)
	return exists
}

// Update replaces the non-nil fields of an existing record. New values are
// validated before anything is written. An unknown id is not an error;
// Update then returns false.
func (s *Store[K]) Update(id K, description, briefing *string) (bool, error) {
	if description != nil {
		if err := model.ValidateDescription(*description); err != nil {
			return false, goerr.Wrap(err, "failed to update record", goerr.V(model.IDKey, id))
		}
	}
	if briefing != nil {
		if err := model.ValidateBriefing(*briefing); err != nil {
			return false, goerr.Wrap(err, "failed to update record", goerr.V(model.IDKey, id))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records.Get(id)
	if !exists {
		return false, nil
	}
	if description != nil {
		if err := record.SetDescription(*description); err != nil {
			return false, err
		}
	}
	if briefing != nil {
		if err := record.SetBriefing(*briefing); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Store[K]) UpdateDescription(id K, description string) (bool, error) {
	return s.Update(id, &description, nil)
}

func (s *Store[K]) UpdateBriefing(id K, briefing string) (bool, error) {
	return s.Update(id, nil, &briefing)
}

// Replace overwrites both fields of an existing record
func (s *Store[K]) Replace(id K, description, briefing string) (bool, error) {
	return s.Update(id, &description, &briefing)
}

// SearchByKeyword returns copies of records whose description or briefing
// contains keyword, in scan order. Matching is case-sensitive.
func (s *Store[K]) SearchByKeyword(keyword string) model.Records[K] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := model.Records[K]{}
	s.scan(func(r *model.Record[K]) bool {
		if r.Matches(keyword) {
			result = append(result, r.Clone())
		}
		return true
	})
	return result
}

// SearchByDescription returns ids whose description contains keyword
func (s *Store[K]) SearchByDescription(keyword string) []K {
	return s.collectIDs(func(r *model.Record[K]) bool {
		return strings.Contains(r.Description(), keyword)
	})
}

// SearchByBriefing returns ids whose briefing contains keyword
func (s *Store[K]) SearchByBriefing(keyword string) []K {
	return s.collectIDs(func(r *model.Record[K]) bool {
		return strings.Contains(r.Briefing(), keyword)
	})
}

// FindIDsByPrefix returns ids whose description or briefing starts with prefix
func (s *Store[K]) FindIDsByPrefix(prefix string) []K {
	return s.collectIDs(func(r *model.Record[K]) bool {
		return r.HasPrefix(prefix)
	})
}

func (s *Store[K]) collectIDs(match func(r *model.Record[K]) bool) []K {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []K{}
	s.scan(func(r *model.Record[K]) bool {
		if match(r) {
			ids = append(ids, r.ID())
		}
		return true
	})
	return ids
}

// IDs returns every id in scan order
func (s *Store[K]) IDs() []K {
	return s.collectIDs(func(*model.Record[K]) bool { return true })
}

// Entries returns copies of every record in scan order
func (s *Store[K]) Entries() model.Records[K] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(model.Records[K], 0, s.records.Len())
	s.scan(func(r *model.Record[K]) bool {
		result = append(result, r.Clone())
		return true
	})
	return result
}

// SortedIDs returns every id in natural order, or reversed when ascending is false
func (s *Store[K]) SortedIDs(ascending bool) []K {
	ids := s.IDs()
	if ascending {
		slices.SortStableFunc(ids, cmp.Compare[K])
	} else {
		slices.SortStableFunc(ids, func(a, b K) int { return cmp.Compare(b, a) })
	}
	return ids
}

// SortByID returns copies of every record ordered by id
func (s *Store[K]) SortByID() model.Records[K] {
	return s.sortRecords(func(a, b *model.Record[K]) int {
		return cmp.Compare(a.ID(), b.ID())
	})
}

// SortByDescription returns copies of every record ordered by description
func (s *Store[K]) SortByDescription() model.Records[K] {
	return s.sortRecords(func(a, b *model.Record[K]) int {
		return cmp.Compare(a.Description(), b.Description())
	})
}

// SortByBriefing returns copies of every record ordered by briefing
func (s *Store[K]) SortByBriefing() model.Records[K] {
	return s.sortRecords(func(a, b *model.Record[K]) int {
		return cmp.Compare(a.Briefing(), b.Briefing())
	})
}

func (s *Store[K]) sortRecords(fn func(a, b *model.Record[K]) int) model.Records[K] {
	records := s.Entries()
	slices.SortStableFunc(records, fn)
	return records
}

// Descriptions maps every id to its description
func (s *Store[K]) Descriptions() map[K]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[K]string, s.records.Len())
	s.scan(func(r *model.Record[K]) bool {
		result[r.ID()] = r.Description()
		return true
	})
	return result
}

// Briefings maps every id to its briefing
func (s *Store[K]) Briefings() map[K]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[K]string, s.records.Len())
	s.scan(func(r *model.Record[K]) bool {
		result[r.ID()] = r.Briefing()
		return true
	})
	return result
}

// Optimize drops records whose id was already seen earlier in scan order and
// returns how many were dropped. Insert never admits a duplicate id, so on
// a consistent store this returns 0.
func (s *Store[K]) Optimize() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make(model.Records[K], 0, s.records.Len())
	s.scan(func(r *model.Record[K]) bool {
		records = append(records, r)
		return true
	})

	kept, removed := records.Dedupe()
	if removed == 0 {
		return 0
	}
	s.rebuild(kept)
	return removed
}

// rebuild resets the map so that records (given in scan order) are iterated
// in the same order. Caller must hold the lock.
func (s *Store[K]) rebuild(records model.Records[K]) {
	s.records = orderedmap.NewOrderedMap[K, *model.Record[K]]()
	for i := len(records) - 1; i >= 0; i-- {
		s.insert(records[i])
	}
}

// Restore replaces the whole content with records given in scan order.
// Later duplicates of an id are dropped; the number dropped is returned.
func (s *Store[K]) Restore(records model.Records[K]) int {
	kept, removed := records.Clone().Dedupe()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rebuild(kept)
	return removed
}

// RandomEntry returns a copy of a uniformly chosen record
func (s *Store[K]) RandomEntry() (*model.Record[K], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.records.Len()
	if n == 0 {
		return nil, goerr.Wrap(model.ErrEmpty, "dictionary is empty")
	}

	target := rand.IntN(n)
	var picked *model.Record[K]
	i := 0
	s.scan(func(r *model.Record[K]) bool {
		if i == target {
			picked = r.Clone()
			return false
		}
		i++
		return true
	})
	return picked, nil
}

func (s *Store[K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records.Len()
}

func (s *Store[K]) IsEmpty() bool {
	return s.Len() == 0
}

func (s *Store[K]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = orderedmap.NewOrderedMap[K, *model.Record[K]]()
}

package usecase

import (
	"context"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/interfaces"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/secmon-lab/trio/pkg/repository/memory"
	"github.com/secmon-lab/trio/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 4

// Entry is the input of a batch insertion
type Entry[K types.Identifier] struct {
	ID          K
	Description string
	Briefing    string
}

// Dictionary ties a Store to its text codec and, optionally, to a
// Persister for save and load.
type Dictionary[K types.Identifier] struct {
	store            *memory.Store[K]
	codec            interfaces.Codec[K]
	persister        interfaces.Persister
	batchConcurrency int
}

type Option[K types.Identifier] func(*Dictionary[K])

func WithPersister[K types.Identifier](p interfaces.Persister) Option[K] {
	return func(d *Dictionary[K]) {
		d.persister = p
	}
}

// WithBatchConcurrency bounds the goroutines used by BatchInsert
func WithBatchConcurrency[K types.Identifier](n int) Option[K] {
	return func(d *Dictionary[K]) {
		if n > 0 {
			d.batchConcurrency = n
		}
	}
}

// WithStore uses an existing store instead of a new empty one
func WithStore[K types.Identifier](s *memory.Store[K]) Option[K] {
	return func(d *Dictionary[K]) {
		if s != nil {
			d.store = s
		}
	}
}

func NewDictionary[K types.Identifier](codec interfaces.Codec[K], opts ...Option[K]) *Dictionary[K] {
	d := &Dictionary[K]{
		store:            memory.New[K](),
		codec:            codec,
		batchConcurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store exposes the underlying store for plain operations
func (d *Dictionary[K]) Store() *memory.Store[K] {
	return d.store
}

func (d *Dictionary[K]) Codec() interfaces.Codec[K] {
	return d.codec
}

// SafeInsert inserts under the store lock. An id that already exists is
// skipped and reported as false.
func (d *Dictionary[K]) SafeInsert(ctx context.Context, id K, description, briefing string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, goerr.Wrap(err, "insert cancelled", goerr.V(model.IDKey, id))
	}

	inserted, err := d.store.Insert(id, description, briefing)
	if err != nil {
		return false, err
	}

	logging.From(ctx).Debug("insert", "id", id, "inserted", inserted)
	return inserted, nil
}

// SafeRemove removes under the store lock and reports whether the id existed
func (d *Dictionary[K]) SafeRemove(ctx context.Context, id K) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, goerr.Wrap(err, "remove cancelled", goerr.V(model.IDKey, id))
	}

	removed := d.store.Remove(id)
	logging.From(ctx).Debug("remove", "id", id, "removed", removed)
	return removed, nil
}

// BatchInsert validates every entry first and then inserts them in
// parallel, so an invalid entry leaves the store untouched. It returns the
// number of entries actually inserted; ids already present are skipped.
func (d *Dictionary[K]) BatchInsert(ctx context.Context, entries []Entry[K]) (int, error) {
	records := make(model.Records[K], 0, len(entries))
	for i, e := range entries {
		r, err := model.NewRecord(e.ID, e.Description, e.Briefing)
		if err != nil {
			return 0, goerr.Wrap(err, "invalid batch entry", goerr.V(model.OffsetKey, i))
		}
		records = append(records, r)
	}

	var inserted atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.batchConcurrency)
	for _, r := range records {
		eg.Go(func() error {
			ok, err := d.SafeInsert(ctx, r.ID(), r.Description(), r.Briefing())
			if err != nil {
				return err
			}
			if ok {
				inserted.Add(1)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return int(inserted.Load()), goerr.Wrap(err, "batch insert aborted")
	}

	logging.From(ctx).Info("batch insert completed",
		"requested", len(entries),
		"inserted", inserted.Load(),
	)
	return int(inserted.Load()), nil
}

// Merge inserts records given in scan order, one at a time from the oldest,
// so they keep their relative order on top of the existing content. Ids
// already present are skipped, and so are later repeats of an id within
// records. It returns the number inserted.
func (d *Dictionary[K]) Merge(ctx context.Context, records model.Records[K]) (int, error) {
	records, _ = records.Dedupe()

	inserted := 0
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		ok, err := d.SafeInsert(ctx, r.ID(), r.Description(), r.Briefing())
		if err != nil {
			return inserted, goerr.Wrap(err, "merge aborted", goerr.V(model.OffsetKey, i))
		}
		if ok {
			inserted++
		}
	}

	logging.From(ctx).Info("merge completed",
		"requested", len(records),
		"inserted", inserted,
	)
	return inserted, nil
}

// Encode renders the whole store in scan order
func (d *Dictionary[K]) Encode() ([]byte, error) {
	return d.codec.Encode(d.store.Entries())
}

// Decode replaces the store content with the records in data. Nothing is
// changed when data is malformed. It returns the number of duplicated ids
// that were dropped.
func (d *Dictionary[K]) Decode(data []byte) (int, error) {
	records, err := d.codec.Decode(data)
	if err != nil {
		return 0, err
	}
	return d.store.Restore(records), nil
}

// Optimize removes scan-order duplicates and logs how many were dropped
func (d *Dictionary[K]) Optimize(ctx context.Context) int {
	removed := d.store.Optimize()
	logging.From(ctx).Info("dictionary optimized", "removed", removed, "size", d.store.Len())
	return removed
}

func (d *Dictionary[K]) requirePersister() error {
	if d.persister == nil {
		return goerr.Wrap(model.ErrInvalidConfig, "no persister configured")
	}
	return nil
}

// Save writes the encoded store to the persister, overwriting it
func (d *Dictionary[K]) Save(ctx context.Context) error {
	if err := d.requirePersister(); err != nil {
		return err
	}

	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := d.persister.Save(ctx, data); err != nil {
		return err
	}

	logging.From(ctx).Info("dictionary saved",
		"location", d.persister.Location(),
		"format", d.codec.Format(),
		"size", d.store.Len(),
		"bytes", len(data),
	)
	return nil
}

// Load replaces the store content with what the persister holds. A
// location that does not exist yet loads as an empty dictionary.
func (d *Dictionary[K]) Load(ctx context.Context) error {
	if err := d.requirePersister(); err != nil {
		return err
	}

	data, err := d.persister.Load(ctx)
	if err != nil {
		return err
	}

	dropped, err := d.Decode(data)
	if err != nil {
		return goerr.Wrap(err, "failed to decode dictionary", goerr.V(model.LocationKey, d.persister.Location()))
	}

	logger := logging.From(ctx)
	if dropped > 0 {
		logger.Warn("duplicated ids dropped on load", "dropped", dropped, "location", d.persister.Location())
	}
	logger.Debug("dictionary loaded",
		"location", d.persister.Location(),
		"size", d.store.Len(),
	)
	return nil
}

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/trio/pkg/codec"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/secmon-lab/trio/pkg/repository/file"
	"github.com/secmon-lab/trio/pkg/repository/memory"
	"github.com/secmon-lab/trio/pkg/usecase"
)

// memPersister is an in-memory Persister for tests
type memPersister struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error
}

func (p *memPersister) Load(context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.data, nil
}

func (p *memPersister) Save(_ context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.data = append([]byte(nil), data...)
	return nil
}

func (p *memPersister) Location() string { return "memory" }
func (p *memPersister) Close() error     { return nil }

func newIntDictionary(t *testing.T, opts ...usecase.Option[int64]) *usecase.Dictionary[int64] {
	t.Helper()
	c, err := codec.New[int64](types.FormatList)
	gt.NoError(t, err).Required()
	return usecase.NewDictionary(c, opts...)
}

func TestDictionary_SafeInsertAndRemove(t *testing.T) {
	ctx := context.Background()
	d := newIntDictionary(t)

	ok, err := d.SafeInsert(ctx, 201, "Elephant", "A large mammal")
	gt.NoError(t, err)
	gt.Bool(t, ok).True()

	ok, err = d.SafeInsert(ctx, 201, "Elephant", "again")
	gt.NoError(t, err)
	gt.Bool(t, ok).False()

	_, err = d.SafeInsert(ctx, 202, "", "The largest sea creature")
	gt.Error(t, err).Is(model.ErrValidation)
	gt.Value(t, d.Store().Len()).Equal(1)

	removed, err := d.SafeRemove(ctx, 201)
	gt.NoError(t, err)
	gt.Bool(t, removed).True()

	removed, err = d.SafeRemove(ctx, 201)
	gt.NoError(t, err)
	gt.Bool(t, removed).False()
	gt.Value(t, d.Store().Len()).Equal(0)
}

func TestDictionary_SafeInsertCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newIntDictionary(t)
	_, err := d.SafeInsert(ctx, 1, "a", "b")
	gt.Error(t, err).Is(context.Canceled)
	gt.Value(t, d.Store().Len()).Equal(0)

	_, err = d.SafeRemove(ctx, 1)
	gt.Error(t, err).Is(context.Canceled)
}

func TestDictionary_ConcurrentSafeInsertDisjointSets(t *testing.T) {
	ctx := context.Background()
	d := newIntDictionary(t)

	const perThread = 500
	var wg sync.WaitGroup
	for thread := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			base := int64(thread * perThread)
			for i := range int64(perThread) {
				if _, err := d.SafeInsert(ctx, base+i, "description", "briefing"); err != nil {
					t.Errorf("insert %d: %v", base+i, err)
				}
			}
		}()
	}
	wg.Wait()

	gt.Value(t, d.Store().Len()).Equal(2 * perThread)
}

func TestDictionary_ConcurrentInsertAndRemove(t *testing.T) {
	ctx := context.Background()
	d := newIntDictionary(t)
	_, err := d.SafeInsert(ctx, 101, "Lion", "A wild carnivorous animal")
	gt.NoError(t, err).Required()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = d.SafeInsert(ctx, 201, "Elephant", "A large mammal")
		_, _ = d.SafeInsert(ctx, 202, "Whale", "The largest sea creature")
	}()
	go func() {
		defer wg.Done()
		_, _ = d.SafeRemove(ctx, 101)
	}()
	wg.Wait()

	gt.Bool(t, d.Store().Contains(101)).False()
	gt.Bool(t, d.Store().Contains(201)).True()
	gt.Bool(t, d.Store().Contains(202)).True()
	gt.Value(t, d.Store().Len()).Equal(2)
}

func TestDictionary_BatchInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts all and skips existing", func(t *testing.T) {
		d := newIntDictionary(t, usecase.WithBatchConcurrency[int64](3))
		_, err := d.SafeInsert(ctx, 5, "existing", "entry")
		gt.NoError(t, err).Required()

		var entries []usecase.Entry[int64]
		for i := range int64(20) {
			entries = append(entries, usecase.Entry[int64]{
				ID:          i,
				Description: fmt.Sprintf("d%d", i),
				Briefing:    fmt.Sprintf("b%d", i),
			})
		}

		n, err := d.BatchInsert(ctx, entries)
		gt.NoError(t, err).Required()
		gt.Value(t, n).Equal(19)
		gt.Value(t, d.Store().Len()).Equal(20)

		r, _ := d.Store().Get(5)
		gt.Value(t, r.Description()).Equal("existing")
	})

	t.Run("invalid entry leaves store untouched", func(t *testing.T) {
		d := newIntDictionary(t)
		n, err := d.BatchInsert(ctx, []usecase.Entry[int64]{
			{ID: 1, Description: "a", Briefing: "b"},
			{ID: 2, Description: "a", Briefing: ""},
		})
		gt.Error(t, err).Is(model.ErrValidation)
		gt.Value(t, n).Equal(0)
		gt.Value(t, d.Store().Len()).Equal(0)
	})
}

func TestDictionary_EncodeDecode(t *testing.T) {
	ctx := context.Background()
	d := newIntDictionary(t)
	for _, e := range []usecase.Entry[int64]{
		{ID: 101, Description: "Lion", Briefing: "A wild carnivorous animal"},
		{ID: 103, Description: "Shark", Briefing: "A large marine predator"},
	} {
		_, err := d.SafeInsert(ctx, e.ID, e.Description, e.Briefing)
		gt.NoError(t, err).Required()
	}

	data, err := d.Encode()
	gt.NoError(t, err).Required()
	gt.Value(t, string(data)).Equal(
		`[{"id":103,"description":"Shark","briefing":"A large marine predator"},` +
			`{"id":101,"description":"Lion","briefing":"A wild carnivorous animal"}]`)

	other := newIntDictionary(t)
	dropped, err := other.Decode(data)
	gt.NoError(t, err).Required()
	gt.Value(t, dropped).Equal(0)
	gt.Value(t, other.Store().IDs()).Equal(d.Store().IDs())
	gt.Value(t, other.Store().Descriptions()).Equal(d.Store().Descriptions())
	gt.Value(t, other.Store().Briefings()).Equal(d.Store().Briefings())

	t.Run("malformed text keeps content", func(t *testing.T) {
		_, err := other.Decode([]byte(`[{"id":`))
		gt.Error(t, err).Is(model.ErrDecode)
		gt.Value(t, other.Store().Len()).Equal(2)
	})

	t.Run("duplicates are dropped first-wins", func(t *testing.T) {
		dropped, err := other.Decode([]byte(`[{"id":1,"description":"a","briefing":"first"},{"id":1,"description":"a","briefing":"second"}]`))
		gt.NoError(t, err).Required()
		gt.Value(t, dropped).Equal(1)
		gt.Value(t, other.Store().Len()).Equal(1)
		r, _ := other.Store().Get(1)
		gt.Value(t, r.Briefing()).Equal("first")
	})
}

func TestDictionary_Optimize(t *testing.T) {
	d := newIntDictionary(t)
	_, err := d.Decode([]byte(`[{"id":103,"description":"Shark","briefing":"A large marine predator"}]`))
	gt.NoError(t, err).Required()

	gt.Value(t, d.Optimize(context.Background())).Equal(0)
	gt.Value(t, d.Store().Len()).Equal(1)
}

func TestDictionary_SaveLoad(t *testing.T) {
	ctx := context.Background()

	for _, format := range types.AllFormats() {
		t.Run(format.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "trio.json")
			p, err := file.New(path)
			gt.NoError(t, err).Required()

			c, err := codec.New[string](format)
			gt.NoError(t, err).Required()

			d := usecase.NewDictionary(c, usecase.WithPersister[string](p))
			_, err = d.SafeInsert(ctx, "101", "Java Basics", "Introduction to Java")
			gt.NoError(t, err).Required()
			_, err = d.SafeInsert(ctx, "102", "OOP Principles", "Encapsulation, Abstraction")
			gt.NoError(t, err).Required()
			gt.NoError(t, d.Save(ctx)).Required()

			loaded := usecase.NewDictionary(c, usecase.WithPersister[string](p))
			_, err = loaded.SafeInsert(ctx, "999", "stale", "replaced by load")
			gt.NoError(t, err).Required()
			gt.NoError(t, loaded.Load(ctx)).Required()

			gt.Value(t, loaded.Store().IDs()).Equal([]string{"102", "101"})
			gt.Bool(t, loaded.Store().Contains("999")).False()
			r, ok := loaded.Store().Get("102")
			gt.Bool(t, ok).True()
			gt.Value(t, r.Briefing()).Equal("Encapsulation, Abstraction")
		})
	}
}

func TestDictionary_LoadMissingLocation(t *testing.T) {
	p := &memPersister{}
	d := newIntDictionary(t, usecase.WithPersister[int64](p))
	_, err := d.SafeInsert(context.Background(), 1, "a", "b")
	gt.NoError(t, err).Required()

	gt.NoError(t, d.Load(context.Background()))
	gt.Value(t, d.Store().Len()).Equal(0)
}

func TestDictionary_PersisterErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no persister", func(t *testing.T) {
		d := newIntDictionary(t)
		gt.Error(t, d.Save(ctx)).Is(model.ErrInvalidConfig)
		gt.Error(t, d.Load(ctx)).Is(model.ErrInvalidConfig)
	})

	t.Run("io errors propagate", func(t *testing.T) {
		cause := errors.New("disk on fire")
		p := &memPersister{
			loadErr: model.IOFailure(cause, "load failed"),
			saveErr: model.IOFailure(cause, "save failed"),
		}
		d := newIntDictionary(t, usecase.WithPersister[int64](p))

		err := d.Save(ctx)
		gt.Error(t, err).Is(model.ErrIO)
		gt.Error(t, err).Is(cause)
		gt.Error(t, d.Load(ctx)).Is(model.ErrIO)
	})

	t.Run("malformed stored text", func(t *testing.T) {
		p := &memPersister{data: []byte(`{"id":1}`)}
		d := newIntDictionary(t, usecase.WithPersister[int64](p))
		_, err := d.SafeInsert(ctx, 7, "kept", "on failure")
		gt.NoError(t, err).Required()

		gt.Error(t, d.Load(ctx)).Is(model.ErrDecode)
		gt.Bool(t, d.Store().Contains(7)).True()
	})
}

func TestDictionary_WithStore(t *testing.T) {
	s := memory.New[int64]()
	_, err := s.Insert(1, "a", "b")
	gt.NoError(t, err).Required()

	d := newIntDictionary(t, usecase.WithStore(s))
	gt.Value(t, d.Store()).Equal(s)
	gt.Value(t, d.Store().Len()).Equal(1)
}

func TestDictionary_Merge(t *testing.T) {
	ctx := context.Background()
	d := newIntDictionary(t)
	_, err := d.SafeInsert(ctx, 2, "Eagle", "A bird of prey")
	gt.NoError(t, err).Required()

	src := newIntDictionary(t)
	_, err = src.Decode([]byte(`[` +
		`{"id":3,"description":"Shark","briefing":"A large marine predator"},` +
		`{"id":2,"description":"Whale","briefing":"The largest sea creature"},` +
		`{"id":1,"description":"Lion","briefing":"A wild carnivorous animal"}]`))
	gt.NoError(t, err).Required()

	inserted, err := d.Merge(ctx, src.Store().Entries())
	gt.NoError(t, err).Required()
	gt.Value(t, inserted).Equal(2)
	gt.Value(t, d.Store().IDs()).Equal([]int64{3, 1, 2})

	inserted, err = d.Merge(ctx, src.Store().Entries())
	gt.NoError(t, err).Required()
	gt.Value(t, inserted).Equal(0)
	gt.Value(t, d.Store().IDs()).Equal([]int64{3, 1, 2})

	r, _ := d.Store().Get(2)
	gt.Value(t, r.Description()).Equal("Eagle")

	t.Run("first occurrence of a repeated id wins", func(t *testing.T) {
		first, err := model.NewRecord[int64](5, "Wolf", "first")
		gt.NoError(t, err).Required()
		second, err := model.NewRecord[int64](5, "Wolf", "second")
		gt.NoError(t, err).Required()

		fresh := newIntDictionary(t)
		n, err := fresh.Merge(ctx, model.Records[int64]{first, second})
		gt.NoError(t, err).Required()
		gt.Value(t, n).Equal(1)
		r, _ := fresh.Store().Get(5)
		gt.Value(t, r.Briefing()).Equal("first")
	})

	t.Run("cancelled context stops", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		fresh := newIntDictionary(t)
		n, err := fresh.Merge(cctx, src.Store().Entries())
		gt.Error(t, err).Is(context.Canceled)
		gt.Value(t, n).Equal(0)
		gt.Value(t, fresh.Store().Len()).Equal(0)
	})
}

package file

import (
	"bytes"
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/interfaces"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/viant/afs"
)

const defaultMode os.FileMode = 0o644

// Persister keeps the dictionary text in a single file. Any location the
// afs service understands works, a plain path being the common case.
type Persister struct {
	fs   afs.Service
	path string
	mode os.FileMode
}

var _ interfaces.Persister = &Persister{}

type Option func(*Persister)

// WithMode sets the permission bits used when the file is created
func WithMode(mode os.FileMode) Option {
	return func(p *Persister) {
		p.mode = mode
	}
}

func New(path string, opts ...Option) (*Persister, error) {
	if path == "" {
		return nil, goerr.Wrap(model.ErrInvalidConfig, "file path is required")
	}

	p := &Persister{
		fs:   afs.New(),
		path: path,
		mode: defaultMode,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Persister) Location() string {
	return p.path
}

func (p *Persister) Load(ctx context.Context) ([]byte, error) {
	exists, err := p.fs.Exists(ctx, p.path)
	if err != nil {
		return nil, model.IOFailure(err, "failed to stat dictionary file", goerr.V(model.LocationKey, p.path))
	}
	if !exists {
		return nil, nil
	}

	data, err := p.fs.DownloadWithURL(ctx, p.path)
	if err != nil {
		return nil, model.IOFailure(err, "failed to read dictionary file", goerr.V(model.LocationKey, p.path))
	}
	return data, nil
}

func (p *Persister) Save(ctx context.Context, data []byte) error {
	if err := p.fs.Upload(ctx, p.path, p.mode, bytes.NewReader(data)); err != nil {
		return model.IOFailure(err, "failed to write dictionary file", goerr.V(model.LocationKey, p.path))
	}
	return nil
}

func (p *Persister) Close() error {
	return nil
}

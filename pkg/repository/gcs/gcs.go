package gcs

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/interfaces"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/utils/safe"
	"google.golang.org/api/option"
)

const contentType = "application/json"

// Persister keeps the dictionary text in one Cloud Storage object
type Persister struct {
	client *storage.Client
	bucket string
	object string
}

var _ interfaces.Persister = &Persister{}

func New(ctx context.Context, bucket, object string, opts ...option.ClientOption) (*Persister, error) {
	if bucket == "" || object == "" {
		return nil, goerr.Wrap(model.ErrInvalidConfig, "bucket and object are required",
			goerr.V("bucket", bucket), goerr.V("object", object))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &Persister{
		client: client,
		bucket: bucket,
		object: object,
	}, nil
}

func (p *Persister) Location() string {
	return "gs://" + p.bucket + "/" + p.object
}

func (p *Persister) handle() *storage.ObjectHandle {
	return p.client.Bucket(p.bucket).Object(p.object)
}

func (p *Persister) Load(ctx context.Context) ([]byte, error) {
	r, err := p.handle().NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, model.IOFailure(err, "failed to open object", goerr.V(model.LocationKey, p.Location()))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.IOFailure(err, "failed to read object", goerr.V(model.LocationKey, p.Location()))
	}
	return data, nil
}

func (p *Persister) Save(ctx context.Context, data []byte) error {
	w := p.handle().NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		safe.Close(ctx, w)
		return model.IOFailure(err, "failed to write object", goerr.V(model.LocationKey, p.Location()))
	}
	// The upload is only committed by Close
	if err := w.Close(); err != nil {
		return model.IOFailure(err, "failed to commit object", goerr.V(model.LocationKey, p.Location()))
	}
	return nil
}

func (p *Persister) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

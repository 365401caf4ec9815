package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/interfaces"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultCollection = "dictionaries"
	defaultDocument   = "default"
)

// dictionaryDoc is the Firestore document holding the encoded text.
// Firestore caps a document at 1 MiB, which bounds the dictionary size.
type dictionaryDoc struct {
	Data      string    `firestore:"Data"`
	Size      int       `firestore:"Size"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

// Persister keeps the dictionary text in a single Firestore document
type Persister struct {
	client     *firestore.Client
	collection string
	document   string
}

var _ interfaces.Persister = &Persister{}

type Option func(*Persister)

func WithCollection(collection string) Option {
	return func(p *Persister) {
		if collection != "" {
			p.collection = collection
		}
	}
}

func WithDocument(document string) Option {
	return func(p *Persister) {
		if document != "" {
			p.document = document
		}
	}
}

func New(ctx context.Context, projectID, databaseID string, opts []Option, clientOpts ...option.ClientOption) (*Persister, error) {
	if projectID == "" {
		return nil, goerr.Wrap(model.ErrInvalidConfig, "firestore project ID is required")
	}
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	p := &Persister{
		client:     client,
		collection: defaultCollection,
		document:   defaultDocument,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Persister) Location() string {
	return p.collection + "/" + p.document
}

func (p *Persister) doc() *firestore.DocumentRef {
	return p.client.Collection(p.collection).Doc(p.document)
}

func (p *Persister) Load(ctx context.Context) ([]byte, error) {
	snap, err := p.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, model.IOFailure(err, "failed to get dictionary document", goerr.V(model.LocationKey, p.Location()))
	}

	var d dictionaryDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, model.IOFailure(err, "failed to unmarshal dictionary document", goerr.V(model.LocationKey, p.Location()))
	}
	return []byte(d.Data), nil
}

func (p *Persister) Save(ctx context.Context, data []byte) error {
	d := &dictionaryDoc{
		Data:      string(data),
		Size:      len(data),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := p.doc().Set(ctx, d); err != nil {
		return model.IOFailure(err, "failed to set dictionary document", goerr.V(model.LocationKey, p.Location()))
	}
	return nil
}

func (p *Persister) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

package mongostore

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/graph"
)

// Defaults for [Options].
const (
	DefaultDatabase   = "authorsphere"
	DefaultCollection = "graphs"
	DefaultName       = "default"
	connectTimeout    = 10 * time.Second
)

// Options selects where the graph document lives.
type Options struct {
	URI        string
	Database   string
	Collection string
	Name       string // Document key; one collection can hold several graphs
}

// record is the stored form: the graph document plus its key.
type record struct {
	Name      string         `bson:"_id"`
	Graph     graph.Document `bson:"graph"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

// Persister keeps a graph store as one MongoDB document.
type Persister struct {
	client *mongo.Client
	coll   *mongo.Collection
	name   string
	owned  bool
}

var _ graph.Persister = (*Persister)(nil)

// Open connects to MongoDB and verifies the connection.
func Open(ctx context.Context, opts Options) (*Persister, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo URI is required")
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "ping mongo")
	}
	p := New(client, opts)
	p.owned = true
	return p, nil
}

// New wraps an existing client. Close does not disconnect it.
func New(client *mongo.Client, opts Options) *Persister {
	db := opts.Database
	if db == "" {
		db = DefaultDatabase
	}
	coll := opts.Collection
	if coll == "" {
		coll = DefaultCollection
	}
	name := opts.Name
	if name == "" {
		name = DefaultName
	}
	return &Persister{
		client: client,
		coll:   client.Database(db).Collection(coll),
		name:   name,
	}
}

// Load reads the graph document. A missing document is an empty store.
func (p *Persister) Load(ctx context.Context) (*graph.Store, error) {
	var rec record
	err := p.coll.FindOne(ctx, bson.M{"_id": p.name}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return graph.NewStore(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceCorrupt, err, "load %s", p.Location())
	}
	return graph.FromDocument(rec.Graph)
}

// Save replaces the graph document, creating it if needed.
func (p *Persister) Save(ctx context.Context, s *graph.Store) error {
	rec := record{Name: p.name, Graph: graph.ToDocument(s), UpdatedAt: time.Now().UTC()}
	_, err := p.coll.ReplaceOne(ctx, bson.M{"_id": p.name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s: %w", p.Location(), err)
	}
	return nil
}

// Delete removes the graph document.
func (p *Persister) Delete(ctx context.Context) error {
	if _, err := p.coll.DeleteOne(ctx, bson.M{"_id": p.name}); err != nil {
		return fmt.Errorf("delete %s: %w", p.Location(), err)
	}
	return nil
}

// Location returns database/collection/name.
func (p *Persister) Location() string {
	return fmt.Sprintf("mongodb:%s/%s/%s", p.coll.Database().Name(), p.coll.Name(), p.name)
}

// Close disconnects the client if Open created it.
func (p *Persister) Close(ctx context.Context) error {
	if !p.owned {
		return nil
	}
	return p.client.Disconnect(ctx)
}

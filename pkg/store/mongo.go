package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection is the MongoDB collection used when none is configured.
const DefaultCollection = "waypoint_documents"

// MongoStore keeps the document in one MongoDB document
// {_id: name, body: string, updated_at: date}.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	name   string
}

type mongoDocument struct {
	ID        string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore creates a client for cfg.URI. The driver connects in the
// background; unreachable servers surface on the first operation.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("mongo config: %w", err)
	}
	name, err := documentKey(cfg.Name, DefaultKey)
	if err != nil {
		return nil, err
	}
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(collection),
		name:   name,
	}, nil
}

// Load finds the document by _id. A missing document is ErrNotFound.
func (s *MongoStore) Load(ctx context.Context) ([]byte, error) {
	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", s.name, err)
	}
	return []byte(doc.Body), nil
}

// Save replaces the document, inserting it if missing.
func (s *MongoStore) Save(ctx context.Context, data []byte) error {
	doc := mongoDocument{ID: s.name, Body: string(data), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace %s: %w", s.name, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) String() string {
	return fmt.Sprintf("mongo:%s.%s/%s", s.coll.Database().Name(), s.coll.Name(), s.name)
}

var _ Store = (*MongoStore)(nil)

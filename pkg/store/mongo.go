package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/bibnet/pkg/cache"
	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/pipeline"
)

const (
	// DefaultDatabase is the database used when the URI names none.
	DefaultDatabase = "bibnet"

	// ReportsCollection holds one document per report.
	ReportsCollection = "reports"

	connectTimeout = 5 * time.Second
)

// reportDoc is the stored form of a report: the summary fields as
// top-level, indexable fields plus the full report as JSON. Reports carry
// integer-keyed maps that BSON documents cannot hold directly.
type reportDoc struct {
	Summary `bson:",inline"`
	Body    string `bson:"body"`
}

// MongoStore is a MongoDB-backed report store.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the MongoDB deployment at uri, pings it with
// backoff and ensures the created_at index exists. An empty database name
// selects [DefaultDatabase].
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "mongo uri")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to mongo")
	}
	if database == "" {
		database = DefaultDatabase
	}
	s := NewMongoStoreFromClient(client, database)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(ReportsCollection),
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create index")
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, r *pipeline.Report) error {
	if err := prepare(r); err != nil {
		return err
	}
	body, err := json.Marshal(r)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "marshal report")
	}
	doc := reportDoc{Summary: Summarize(r), Body: string(body)}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "save report %s", r.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*pipeline.Report, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	var doc reportDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "get report %s", id)
	}
	var r pipeline.Report
	if err := json.Unmarshal([]byte(doc.Body), &r); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "parse report %s", id)
	}
	return &r, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limitOrDefault(limit))).
		SetProjection(bson.D{{Key: "body", Value: 0}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list reports")
	}
	var out []Summary
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "decode reports")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete report %s", id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

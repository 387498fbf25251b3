package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mfolkers/gleaner/internal/table"
	"github.com/mfolkers/gleaner/internal/types"
)

// MongoSink inserts one document per row into a collection named after the
// run's output name. Reruns with the same name append; there is no upsert.
type MongoSink struct {
	uri      string
	database string
	logger   *slog.Logger
}

// NewMongoSink creates a MongoDB sink.
func NewMongoSink(uri, database string, logger *slog.Logger) *MongoSink {
	return &MongoSink{
		uri:      uri,
		database: database,
		logger:   logger.With("component", "mongo_sink"),
	}
}

func (s *MongoSink) Name() string { return "mongo" }

// Save inserts all rows into the collection called name.
func (s *MongoSink) Save(ctx context.Context, t *table.Table, name string) (string, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = client.Disconnect(closeCtx)
	}()

	if err := client.Ping(connectCtx, nil); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	if t.Len() == 0 {
		s.logger.Info("nothing to insert", "collection", name)
		return fmt.Sprintf("%s/%s.%s", s.uri, s.database, name), nil
	}

	columns := t.Columns()
	docs := make([]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		// bson.D keeps the column order in the stored document.
		doc := make(bson.D, len(columns))
		for j, c := range columns {
			doc[j] = bson.E{Key: c, Value: t.Cell(i, c)}
		}
		docs[i] = doc
	}

	coll := client.Database(s.database).Collection(name)
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	location := fmt.Sprintf("%s/%s.%s", s.uri, s.database, name)
	s.logger.Info("rows inserted into mongodb", "database", s.database, "collection", name, "rows", t.Len())
	return location, nil
}

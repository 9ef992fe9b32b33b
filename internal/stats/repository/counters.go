package repository

import (
	"context"
	"errors"
	"fmt"

	"busport/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Counters"

	CounterSearches = "searches"
)

// CounterRepository tracks platform-wide tallies as read-through
// documents instead of process-global state, so counts survive restarts
// and stay correct across replicas.
type CounterRepository interface {
	Increment(ctx context.Context, name string) error
	Value(ctx context.Context, name string) (int64, error)
}

type counterDocument struct {
	Name  string `bson:"name"`
	Value int64  `bson:"value"`
}

type mongoCounterRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCounterRepository(cfg *config.Config) CounterRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCounterRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoCounterRepository) Increment(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	return nil
}

func (r *mongoCounterRepository) Value(ctx context.Context, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc counterDocument
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	return doc.Value, nil
}

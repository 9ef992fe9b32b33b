package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	buserrors "busport/internal/buses/errors"
	"busport/pkg/config"
	mongotx "busport/pkg/db/mongo"
	"busport/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Buses"
)

type BusRepository interface {
	Create(ctx context.Context, bus *model.Bus) error
	FindByID(ctx context.Context, id string) (*model.Bus, error)
	FindByNumber(ctx context.Context, busNumber string) (*model.Bus, error)
	FindAll(ctx context.Context) ([]*model.Bus, error)
	Update(ctx context.Context, id string, bus *model.Bus) error
	Count(ctx context.Context) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBusRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBusRepository(cfg *config.Config) BusRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBusRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBusRepository) Create(ctx context.Context, bus *model.Bus) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	bus.CreatedAt = now
	bus.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, bus)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		bus.ID = oid.Hex()
	}

	return nil
}

func (r *mongoBusRepository) FindByID(ctx context.Context, id string) (*model.Bus, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", buserrors.ErrInvalidID, id)
	}

	var bus model.Bus
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&bus)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", buserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find bus: %w", err)
	}
	return &bus, nil
}

func (r *mongoBusRepository) FindByNumber(ctx context.Context, busNumber string) (*model.Bus, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var bus model.Bus
	err := r.collection.FindOne(ctx, bson.M{"busNumber": busNumber}).Decode(&bus)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", buserrors.ErrNotFound, busNumber)
		}
		return nil, fmt.Errorf("failed to find bus by number: %w", err)
	}
	return &bus, nil
}

// FindAll loads every published bus. The search and unique-route
// derivations scan the whole collection; a materialized route index can
// replace this without touching the services.
func (r *mongoBusRepository) FindAll(ctx context.Context) ([]*model.Bus, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "busName", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query buses: %w", err)
	}
	defer cursor.Close(ctx)

	var buses []*model.Bus
	if err = cursor.All(ctx, &buses); err != nil {
		return nil, fmt.Errorf("failed to decode buses: %w", err)
	}

	return buses, nil
}

func (r *mongoBusRepository) Update(ctx context.Context, id string, bus *model.Bus) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", buserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"busName":    bus.BusName,
			"busNumber":  bus.BusNumber,
			"busType":    bus.BusType,
			"capacity":   bus.Capacity,
			"fare":       bus.Fare,
			"amenities":  bus.Amenities,
			"stoppages":  bus.Stoppages,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update bus: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", buserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoBusRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count buses: %w", err)
	}
	return count, nil
}

func (r *mongoBusRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

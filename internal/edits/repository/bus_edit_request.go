package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	editerrors "busport/internal/edits/errors"
	"busport/pkg/config"
	"busport/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "BusEditRequests"
)

type BusEditRequestRepository interface {
	Create(ctx context.Context, req *model.BusEditRequest) error
	FindByID(ctx context.Context, id string) (*model.BusEditRequest, error)
	FindPending(ctx context.Context) ([]*model.BusEditRequest, error)
	MarkApproved(ctx context.Context, id string, remark string) error
	MarkRejected(ctx context.Context, id string, remark string) error
}

type mongoBusEditRequestRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBusEditRequestRepository(cfg *config.Config) BusEditRequestRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBusEditRequestRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

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

func (r *mongoBusEditRequestRepository) Create(ctx context.Context, req *model.BusEditRequest) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	req.CreatedAt = now
	req.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create bus edit request: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid.Hex()
	}

	return nil
}

func (r *mongoBusEditRequestRepository) FindByID(ctx context.Context, id string) (*model.BusEditRequest, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", editerrors.ErrInvalidID, id)
	}

	var req model.BusEditRequest
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", editerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find bus edit request: %w", err)
	}
	return &req, nil
}

func (r *mongoBusEditRequestRepository) FindPending(ctx context.Context) ([]*model.BusEditRequest, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"status": model.EditStatusPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending bus edit requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*model.BusEditRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode bus edit requests: %w", err)
	}

	return requests, nil
}

func (r *mongoBusEditRequestRepository) MarkApproved(ctx context.Context, id string, remark string) error {
	return r.markTerminal(ctx, id, model.EditStatusApproved, remark)
}

func (r *mongoBusEditRequestRepository) MarkRejected(ctx context.Context, id string, remark string) error {
	return r.markTerminal(ctx, id, model.EditStatusRejected, remark)
}

// markTerminal flips a pending edit to a terminal status; the pending
// predicate makes concurrent decisions mutually exclusive.
func (r *mongoBusEditRequestRepository) markTerminal(ctx context.Context, id string, status string, remark string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", editerrors.ErrInvalidID, id)
	}

	fields := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if remark != "" {
		fields["adminRemark"] = remark
	}

	filter := bson.M{
		"_id":    objectID,
		"status": model.EditStatusPending,
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update bus edit request status: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", editerrors.ErrNotPending, id)
	}

	return nil
}

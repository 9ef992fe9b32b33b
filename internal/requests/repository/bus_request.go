package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	requesterrors "busport/internal/requests/errors"
	"busport/pkg/config"
	mongotx "busport/pkg/db/mongo"
	"busport/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "BusRequests"
)

type BusRequestRepository interface {
	Create(ctx context.Context, req *model.BusRequest) error
	FindByID(ctx context.Context, id string) (*model.BusRequest, error)
	FindByUser(ctx context.Context, userID string) ([]*model.BusRequest, error)
	FindPending(ctx context.Context) ([]*model.BusRequest, error)
	FindActiveByNumber(ctx context.Context, busNumber string, excludeID string) (*model.BusRequest, error)
	Replace(ctx context.Context, id string, req *model.BusRequest) error
	MarkApproved(ctx context.Context, id string) error
	MarkRejected(ctx context.Context, id string, reason string) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBusRequestRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBusRequestRepository(cfg *config.Config) BusRequestRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBusRequestRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
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

func (r *mongoBusRequestRepository) Create(ctx context.Context, req *model.BusRequest) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	req.CreatedAt = now
	req.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create bus request: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid.Hex()
	}

	return nil
}

func (r *mongoBusRequestRepository) FindByID(ctx context.Context, id string) (*model.BusRequest, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", requesterrors.ErrInvalidID, id)
	}

	var req model.BusRequest
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", requesterrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find bus request: %w", err)
	}
	return &req, nil
}

func (r *mongoBusRequestRepository) FindByUser(ctx context.Context, userID string) ([]*model.BusRequest, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bus requests for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var requests []*model.BusRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode bus requests: %w", err)
	}

	return requests, nil
}

func (r *mongoBusRequestRepository) FindPending(ctx context.Context) ([]*model.BusRequest, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"status": model.RequestStatusPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending bus requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*model.BusRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode pending bus requests: %w", err)
	}

	return requests, nil
}

// FindActiveByNumber returns a non-rejected request carrying the given
// bus number, excluding the record with excludeID (so a resubmission
// does not collide with itself). Returns ErrNotFound when no such
// request exists.
func (r *mongoBusRequestRepository) FindActiveByNumber(ctx context.Context, busNumber string, excludeID string) (*model.BusRequest, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"busNumber": busNumber,
		"status":    bson.M{"$ne": model.RequestStatusRejected},
	}
	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", requesterrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	var req model.BusRequest
	err := r.collection.FindOne(ctx, filter).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", requesterrors.ErrNotFound, busNumber)
		}
		return nil, fmt.Errorf("failed to find bus request by number: %w", err)
	}
	return &req, nil
}

// Replace overwrites the submitter-editable fields and resets the record
// to pending, clearing any previous rejection reason.
func (r *mongoBusRequestRepository) Replace(ctx context.Context, id string, req *model.BusRequest) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", requesterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"busName":    req.BusName,
			"busNumber":  req.BusNumber,
			"busType":    req.BusType,
			"capacity":   req.Capacity,
			"fare":       req.Fare,
			"amenities":  req.Amenities,
			"stoppages":  req.Stoppages,
			"status":     model.RequestStatusPending,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
		"$unset": bson.M{
			"rejectionReason": "",
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update bus request: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", requesterrors.ErrNotFound, id)
	}

	return nil
}

// MarkApproved flips a pending request to approved. The pending-status
// predicate makes the flip conditional: a concurrent moderator losing
// the race gets ErrNotPending instead of silently double-approving.
func (r *mongoBusRequestRepository) MarkApproved(ctx context.Context, id string) error {
	return r.markTerminal(ctx, id, bson.M{
		"status":     model.RequestStatusApproved,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	})
}

func (r *mongoBusRequestRepository) MarkRejected(ctx context.Context, id string, reason string) error {
	return r.markTerminal(ctx, id, bson.M{
		"status":          model.RequestStatusRejected,
		"rejectionReason": reason,
		"updated_at":      time.Now().UTC().Truncate(time.Millisecond),
	})
}

func (r *mongoBusRequestRepository) markTerminal(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", requesterrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": model.RequestStatusPending,
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update bus request status: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", requesterrors.ErrNotPending, id)
	}

	return nil
}

func (r *mongoBusRequestRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

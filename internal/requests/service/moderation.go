package service

import (
	"context"
	"errors"
	"strings"

	buserrors "busport/internal/buses/errors"
	busrepository "busport/internal/buses/repository"
	busvalidator "busport/internal/buses/validator"
	requesterrors "busport/internal/requests/errors"
	"busport/internal/requests/repository"
	"busport/pkg/config"
	apperrors "busport/pkg/errors"
	"busport/pkg/events"
	"busport/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ModerationService is the admin half of the submission workflow:
// approving a request materializes (or refreshes) the published bus,
// rejecting one records the reason and leaves the record editable by
// its submitter.
type ModerationService interface {
	Approve(ctx context.Context, requestID string) (*model.Bus, error)
	Reject(ctx context.Context, requestID string, reason string) (*model.BusRequest, error)
}

type moderationService struct {
	requests  repository.BusRequestRepository
	buses     busrepository.BusRepository
	validator *busvalidator.BusValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewModerationService(
	requests repository.BusRequestRepository,
	buses busrepository.BusRepository,
	v *busvalidator.BusValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ModerationService {
	return &moderationService{
		requests:  requests,
		buses:     buses,
		validator: v,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Approve publishes a pending request as a bus. Optional fields the
// submitter left malformed are replaced with platform defaults rather
// than bouncing the request. If a bus with the same number already
// exists its listing is overwritten in place, keeping its id and owner.
// The final status flip is conditional on the request still being
// pending, so the second of two racing moderators gets
// ALREADY_PROCESSED instead of a double publish.
func (s *moderationService) Approve(ctx context.Context, requestID string) (*model.Bus, error) {
	req, err := s.loadForModeration(ctx, requestID)
	if err != nil {
		return nil, err
	}

	bus := s.buildBus(req)

	if err := s.validator.Validate(bus); err != nil {
		// The request stays pending; the submitter's route data is
		// broken in a way defaults cannot paper over.
		return nil, busValidationToAppError(err)
	}

	existing, err := s.buses.FindByNumber(ctx, bus.BusNumber)
	switch {
	case err == nil:
		bus.ID = existing.ID
		bus.OwnerID = existing.OwnerID
		if err := s.buses.Update(ctx, existing.ID, bus); err != nil {
			s.cfg.Log.Error("Failed to refresh published bus", "busNumber", bus.BusNumber, "error", err)
			return nil, apperrors.Internal("Failed to publish bus", err)
		}
	case errors.Is(err, buserrors.ErrNotFound):
		bus.OwnerID = req.UserID
		if err := s.buses.Create(ctx, bus); err != nil {
			s.cfg.Log.Error("Failed to publish bus", "busNumber", bus.BusNumber, "error", err)
			return nil, apperrors.Internal("Failed to publish bus", err)
		}
	default:
		s.cfg.Log.Error("Failed to look up published bus", "busNumber", bus.BusNumber, "error", err)
		return nil, apperrors.Internal("Failed to publish bus", err)
	}

	if err := s.requests.MarkApproved(ctx, requestID); err != nil {
		if errors.Is(err, requesterrors.ErrNotPending) {
			return nil, apperrors.AlreadyProcessed("Bus request", model.RequestStatusApproved)
		}
		s.cfg.Log.Error("Failed to mark bus request approved", "requestId", requestID, "error", err)
		return nil, apperrors.Internal("Failed to approve bus request", err)
	}

	s.publish(ctx, events.ModerationEvent{
		Kind:      events.KindBusRequestApproved,
		RequestID: requestID,
		BusID:     bus.ID,
		BusNumber: bus.BusNumber,
		Status:    model.RequestStatusApproved,
	})

	s.cfg.Log.Info("Bus request approved",
		"requestId", requestID,
		"busId", bus.ID,
		"busNumber", bus.BusNumber,
	)

	return bus, nil
}

// Reject records a moderation refusal. The reason is mandatory; a
// rejection with no explanation leaves the submitter nothing to fix.
func (s *moderationService) Reject(ctx context.Context, requestID string, reason string) (*model.BusRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.InvalidInput("Rejection reason is required")
	}

	req, err := s.loadForModeration(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.requests.MarkRejected(ctx, requestID, reason); err != nil {
		if errors.Is(err, requesterrors.ErrNotPending) {
			return nil, apperrors.AlreadyProcessed("Bus request", req.Status)
		}
		s.cfg.Log.Error("Failed to mark bus request rejected", "requestId", requestID, "error", err)
		return nil, apperrors.Internal("Failed to reject bus request", err)
	}

	req.Status = model.RequestStatusRejected
	req.RejectionReason = reason

	s.publish(ctx, events.ModerationEvent{
		Kind:      events.KindBusRequestRejected,
		RequestID: requestID,
		BusNumber: req.BusNumber,
		Status:    model.RequestStatusRejected,
		Reason:    reason,
	})

	s.cfg.Log.Info("Bus request rejected", "requestId", requestID, "reason", reason)

	return req, nil
}

func (s *moderationService) loadForModeration(ctx context.Context, requestID string) (*model.BusRequest, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, requesterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid bus request ID format")
		}
		if errors.Is(err, requesterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Bus request", requestID)
		}
		s.cfg.Log.Error("Failed to load bus request", "requestId", requestID, "error", err)
		return nil, apperrors.Internal("Failed to load bus request", err)
	}

	if req.IsTerminal() {
		return nil, apperrors.AlreadyProcessed("Bus request", req.Status)
	}

	return req, nil
}

// buildBus materializes the published listing from a submission,
// substituting defaults for malformed optional fields and minting ids
// for stoppage sub-documents.
func (s *moderationService) buildBus(req *model.BusRequest) *model.Bus {
	busType := req.BusType
	if !model.IsValidBusType(busType) {
		busType = s.cfg.DefaultBusType
	}

	capacity := req.Capacity
	if capacity < model.MinCapacity || capacity > model.MaxCapacity {
		capacity = s.cfg.DefaultCapacity
	}

	fare := req.Fare
	if fare < model.MinFare {
		fare = s.cfg.DefaultFare
	}

	amenities := make([]string, 0, len(req.Amenities))
	for _, a := range req.Amenities {
		if model.IsValidAmenity(a) {
			amenities = append(amenities, a)
		}
	}

	stoppages := make([]model.Stoppage, len(req.Stoppages))
	copy(stoppages, req.Stoppages)
	for i := range stoppages {
		if stoppages[i].ID == "" {
			stoppages[i].ID = primitive.NewObjectID().Hex()
		}
	}

	return &model.Bus{
		BusName:   req.BusName,
		BusNumber: req.BusNumber,
		BusType:   busType,
		Capacity:  capacity,
		Fare:      fare,
		Amenities: amenities,
		Stoppages: stoppages,
	}
}

// publish is best-effort: a broker outage never rolls back a decision
// that already landed in Mongo.
func (s *moderationService) publish(ctx context.Context, event events.ModerationEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish moderation event",
			"kind", event.Kind,
			"requestId", event.RequestID,
			"error", err,
		)
	}
}

func busValidationToAppError(err error) error {
	var errs busvalidator.ValidationErrors
	if errors.As(err, &errs) {
		details := make(map[string]any, len(errs))
		for _, e := range errs {
			details[e.Field] = e.Message
		}
		return apperrors.Validation("Bus validation failed", details)
	}
	return apperrors.Validation(err.Error(), nil)
}

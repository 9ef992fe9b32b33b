package service

import (
	"context"
	"errors"
	"strings"

	buserrors "busport/internal/buses/errors"
	busrepository "busport/internal/buses/repository"
	busvalidator "busport/internal/buses/validator"
	editerrors "busport/internal/edits/errors"
	"busport/internal/edits/repository"
	userrepository "busport/internal/users/repository"
	"busport/pkg/config"
	apperrors "busport/pkg/errors"
	"busport/pkg/events"
	"busport/pkg/model"
	"busport/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusEditRequestService manages proposed stoppage changes to published
// buses. Proposals never touch the bus; approval applies the change
// in memory, re-validates the full bus, and only then persists it.
type BusEditRequestService interface {
	Create(ctx context.Context, req *model.BusEditRequest) (*model.BusEditRequest, error)
	ListPending(ctx context.Context) ([]*model.PendingEditRequest, error)
	Approve(ctx context.Context, id string, remark string) (*model.Bus, error)
	Reject(ctx context.Context, id string, remark string) (*model.BusEditRequest, error)
}

type busEditRequestService struct {
	repo      repository.BusEditRequestRepository
	buses     busrepository.BusRepository
	users     userrepository.UserRepository
	validator *busvalidator.BusValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBusEditRequestService(
	repo repository.BusEditRequestRepository,
	buses busrepository.BusRepository,
	users userrepository.UserRepository,
	v *busvalidator.BusValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BusEditRequestService {
	return &busEditRequestService{
		repo:      repo,
		buses:     buses,
		users:     users,
		validator: v,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create records a proposal after checking it is coherent: the bus must
// exist, UPDATE and DELETE must target one of its stoppages, and ADD
// must carry at least a stop name. Any authenticated user may propose
// an edit; ownership is not required.
func (s *busEditRequestService) Create(ctx context.Context, req *model.BusEditRequest) (*model.BusEditRequest, error) {
	req.ID = ""
	req.Status = model.EditStatusPending
	req.AdminRemark = ""

	bus, err := s.loadBus(ctx, req.BusID)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case model.EditTypeAdd:
		if req.Data == nil || req.Data.Name == nil || sanitizer.NormalizeStopName(*req.Data.Name) == "" {
			return nil, apperrors.InvalidInput("An ADD request must include the new stop's name")
		}
	case model.EditTypeUpdate:
		if req.StoppageID == "" {
			return nil, apperrors.InvalidInput("An UPDATE request must target a stoppage")
		}
		if req.Data == nil {
			return nil, apperrors.InvalidInput("An UPDATE request must include the fields to change")
		}
		if bus.StoppageIndexByID(req.StoppageID) == -1 {
			return nil, apperrors.NotFoundWithID("Stoppage", req.StoppageID)
		}
	case model.EditTypeDelete:
		if req.StoppageID == "" {
			return nil, apperrors.InvalidInput("A DELETE request must target a stoppage")
		}
		if bus.StoppageIndexByID(req.StoppageID) == -1 {
			return nil, apperrors.NotFoundWithID("Stoppage", req.StoppageID)
		}
	default:
		return nil, apperrors.InvalidInput("Edit type must be one of ADD, UPDATE, DELETE")
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.cfg.Log.Error("Failed to create bus edit request", "busId", req.BusID, "error", err)
		return nil, apperrors.Internal("Failed to create bus edit request", err)
	}

	s.cfg.Log.Info("Bus edit request created",
		"editRequestId", req.ID,
		"busId", req.BusID,
		"type", req.Type,
	)

	return req, nil
}

// ListPending expands each pending edit with the bus's and submitter's
// display fields. A bus or user deleted since submission degrades to
// placeholder text instead of failing the whole listing.
func (s *busEditRequestService) ListPending(ctx context.Context) ([]*model.PendingEditRequest, error) {
	pending, err := s.repo.FindPending(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list pending bus edit requests", "error", err)
		return nil, apperrors.Internal("Failed to list pending bus edit requests", err)
	}

	expanded := make([]*model.PendingEditRequest, 0, len(pending))
	for _, req := range pending {
		item := &model.PendingEditRequest{
			BusEditRequest:  *req,
			BusName:         "Unknown bus",
			BusNumber:       "",
			RequestedByName: "Unknown user",
		}

		if bus, err := s.buses.FindByID(ctx, req.BusID); err == nil {
			item.BusName = bus.BusName
			item.BusNumber = bus.BusNumber
		}
		if user, err := s.users.FindByID(ctx, req.RequestedBy); err == nil {
			item.RequestedByName = user.Name
		}

		expanded = append(expanded, item)
	}

	return expanded, nil
}

// Approve applies the proposed change to the bus and flips the edit to
// APPROVED. The patched bus must still satisfy every listing rule; in
// particular a DELETE that would drop the route below the stop minimum
// is refused and the edit stays pending.
func (s *busEditRequestService) Approve(ctx context.Context, id string, remark string) (*model.Bus, error) {
	req, err := s.loadForModeration(ctx, id)
	if err != nil {
		return nil, err
	}

	bus, err := s.loadBus(ctx, req.BusID)
	if err != nil {
		return nil, err
	}

	if err := applyChange(bus, req); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(bus); err != nil {
		return nil, busValidationToAppError(err)
	}

	if err := s.buses.Update(ctx, bus.ID, bus); err != nil {
		s.cfg.Log.Error("Failed to apply bus edit", "busId", bus.ID, "editRequestId", id, "error", err)
		return nil, apperrors.Internal("Failed to apply bus edit", err)
	}

	if err := s.repo.MarkApproved(ctx, id, strings.TrimSpace(remark)); err != nil {
		if errors.Is(err, editerrors.ErrNotPending) {
			return nil, apperrors.AlreadyProcessed("Bus edit request", model.EditStatusApproved)
		}
		s.cfg.Log.Error("Failed to mark bus edit request approved", "editRequestId", id, "error", err)
		return nil, apperrors.Internal("Failed to approve bus edit request", err)
	}

	s.publish(ctx, events.ModerationEvent{
		Kind:      events.KindEditApproved,
		RequestID: id,
		BusID:     bus.ID,
		BusNumber: bus.BusNumber,
		Status:    model.EditStatusApproved,
	})

	s.cfg.Log.Info("Bus edit request approved",
		"editRequestId", id,
		"busId", bus.ID,
		"type", req.Type,
	)

	return bus, nil
}

// Reject closes a proposal without touching the bus. The remark is
// optional, unlike a submission rejection's reason.
func (s *busEditRequestService) Reject(ctx context.Context, id string, remark string) (*model.BusEditRequest, error) {
	req, err := s.loadForModeration(ctx, id)
	if err != nil {
		return nil, err
	}

	remark = strings.TrimSpace(remark)

	if err := s.repo.MarkRejected(ctx, id, remark); err != nil {
		if errors.Is(err, editerrors.ErrNotPending) {
			return nil, apperrors.AlreadyProcessed("Bus edit request", req.Status)
		}
		s.cfg.Log.Error("Failed to mark bus edit request rejected", "editRequestId", id, "error", err)
		return nil, apperrors.Internal("Failed to reject bus edit request", err)
	}

	req.Status = model.EditStatusRejected
	req.AdminRemark = remark

	s.publish(ctx, events.ModerationEvent{
		Kind:      events.KindEditRejected,
		RequestID: id,
		BusID:     req.BusID,
		Status:    model.EditStatusRejected,
		Reason:    remark,
	})

	s.cfg.Log.Info("Bus edit request rejected", "editRequestId", id)

	return req, nil
}

func (s *busEditRequestService) loadForModeration(ctx context.Context, id string) (*model.BusEditRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, editerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid bus edit request ID format")
		}
		if errors.Is(err, editerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Bus edit request", id)
		}
		s.cfg.Log.Error("Failed to load bus edit request", "editRequestId", id, "error", err)
		return nil, apperrors.Internal("Failed to load bus edit request", err)
	}

	if req.IsTerminal() {
		return nil, apperrors.AlreadyProcessed("Bus edit request", req.Status)
	}

	return req, nil
}

func (s *busEditRequestService) loadBus(ctx context.Context, busID string) (*model.Bus, error) {
	bus, err := s.buses.FindByID(ctx, busID)
	if err != nil {
		if errors.Is(err, buserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid bus ID format")
		}
		if errors.Is(err, buserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Bus", busID)
		}
		s.cfg.Log.Error("Failed to load bus", "busId", busID, "error", err)
		return nil, apperrors.Internal("Failed to load bus", err)
	}
	return bus, nil
}

// applyChange mutates the in-memory bus per the edit request. The
// caller re-validates the result before persisting anything.
func applyChange(bus *model.Bus, req *model.BusEditRequest) error {
	switch req.Type {
	case model.EditTypeAdd:
		return applyAdd(bus, req.Data)
	case model.EditTypeUpdate:
		return applyUpdate(bus, req.StoppageID, req.Data)
	case model.EditTypeDelete:
		return applyDelete(bus, req.StoppageID)
	default:
		return apperrors.InvalidInput("Edit type must be one of ADD, UPDATE, DELETE")
	}
}

func applyAdd(bus *model.Bus, data *model.StoppageChange) error {
	if data == nil || data.Name == nil {
		return apperrors.InvalidInput("An ADD request must include the new stop's name")
	}

	stop := model.Stoppage{
		ID:   primitive.NewObjectID().Hex(),
		Name: sanitizer.NormalizeStopName(*data.Name),
		// Appended to the end of the route unless the request says
		// otherwise.
		Order: bus.MaxStoppageOrder() + 1,
	}
	if data.Order != nil {
		stop.Order = *data.Order
	}
	if data.GoingTime != nil {
		stop.GoingTime = strings.TrimSpace(*data.GoingTime)
	}
	if data.ReturnTime != nil {
		stop.ReturnTime = strings.TrimSpace(*data.ReturnTime)
	}

	bus.Stoppages = append(bus.Stoppages, stop)
	return nil
}

func applyUpdate(bus *model.Bus, stoppageID string, data *model.StoppageChange) error {
	if data == nil {
		return apperrors.InvalidInput("An UPDATE request must include the fields to change")
	}

	i := bus.StoppageIndexByID(stoppageID)
	if i == -1 {
		return apperrors.NotFoundWithID("Stoppage", stoppageID)
	}

	if data.Name != nil {
		bus.Stoppages[i].Name = sanitizer.NormalizeStopName(*data.Name)
	}
	if data.Order != nil {
		bus.Stoppages[i].Order = *data.Order
	}
	if data.GoingTime != nil {
		bus.Stoppages[i].GoingTime = strings.TrimSpace(*data.GoingTime)
	}
	if data.ReturnTime != nil {
		bus.Stoppages[i].ReturnTime = strings.TrimSpace(*data.ReturnTime)
	}

	return nil
}

func applyDelete(bus *model.Bus, stoppageID string) error {
	i := bus.StoppageIndexByID(stoppageID)
	if i == -1 {
		return apperrors.NotFoundWithID("Stoppage", stoppageID)
	}

	bus.Stoppages = append(bus.Stoppages[:i], bus.Stoppages[i+1:]...)
	return nil
}

func (s *busEditRequestService) publish(ctx context.Context, event events.ModerationEvent) {
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

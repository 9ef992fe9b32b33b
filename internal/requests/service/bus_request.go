package service

import (
	"context"
	"errors"

	buserrors "busport/internal/buses/errors"
	busrepository "busport/internal/buses/repository"
	requesterrors "busport/internal/requests/errors"
	"busport/internal/requests/repository"
	"busport/internal/requests/validator"
	"busport/pkg/config"
	apperrors "busport/pkg/errors"
	"busport/pkg/model"
	"busport/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type BusRequestService interface {
	Submit(ctx context.Context, req *model.BusRequest) (*model.BusRequest, error)
	ListMine(ctx context.Context, userID string) ([]*model.BusRequest, error)
	Get(ctx context.Context, id string, userID string) (*model.BusRequest, error)
	Update(ctx context.Context, id string, userID string, upd *model.BusRequestUpdate) (*model.BusRequest, error)
	ListPending(ctx context.Context) ([]*model.BusRequest, error)
}

type busRequestService struct {
	repo      repository.BusRequestRepository
	buses     busrepository.BusRepository
	validator *validator.BusRequestValidator
	cfg       *config.Config
}

func NewBusRequestService(
	repo repository.BusRequestRepository,
	buses busrepository.BusRepository,
	v *validator.BusRequestValidator,
	cfg *config.Config,
) BusRequestService {
	return &busRequestService{
		repo:      repo,
		buses:     buses,
		validator: v,
		cfg:       cfg,
	}
}

// Submit validates and persists a new candidate listing in pending
// state. The bus number must not collide with a published bus or with
// another non-rejected request; both checks and the insert run inside
// one transaction so two concurrent submissions of the same number
// cannot both land.
func (s *busRequestService) Submit(ctx context.Context, req *model.BusRequest) (*model.BusRequest, error) {
	sanitizeRequest(req)
	req.ID = ""
	req.Status = model.RequestStatusPending
	req.RejectionReason = ""

	if err := s.validator.Validate(req); err != nil {
		return nil, validationToAppError(err)
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkNumberAvailable(sessCtx, req.BusNumber, ""); err != nil {
			return err
		}
		return s.repo.Create(sessCtx, req)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to submit bus request",
			"busNumber", req.BusNumber,
			"userId", req.UserID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to submit bus request", err)
	}

	s.cfg.Log.Info("Bus request submitted",
		"requestId", req.ID,
		"busNumber", req.BusNumber,
		"userId", req.UserID,
	)

	return req, nil
}

func (s *busRequestService) ListMine(ctx context.Context, userID string) ([]*model.BusRequest, error) {
	requests, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bus requests", "userId", userID, "error", err)
		return nil, apperrors.Internal("Failed to list bus requests", err)
	}
	if requests == nil {
		requests = make([]*model.BusRequest, 0)
	}
	return requests, nil
}

func (s *busRequestService) Get(ctx context.Context, id string, userID string) (*model.BusRequest, error) {
	req, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Update lets the submitter revise their own pending or rejected
// request. Any update resets the record to pending and clears the
// rejection reason, re-entering the moderation queue.
func (s *busRequestService) Update(ctx context.Context, id string, userID string, upd *model.BusRequestUpdate) (*model.BusRequest, error) {
	req, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Status == model.RequestStatusApproved {
		return nil, apperrors.AlreadyProcessed("Bus request", req.Status)
	}

	applyUpdate(req, upd)
	sanitizeRequest(req)

	if err := s.validator.Validate(req); err != nil {
		return nil, validationToAppError(err)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkNumberAvailable(sessCtx, req.BusNumber, id); err != nil {
			return err
		}
		return s.repo.Replace(sessCtx, id, req)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to update bus request", "requestId", id, "error", err)
		return nil, apperrors.Internal("Failed to update bus request", err)
	}

	req.Status = model.RequestStatusPending
	req.RejectionReason = ""

	s.cfg.Log.Info("Bus request updated and re-queued",
		"requestId", id,
		"busNumber", req.BusNumber,
		"userId", userID,
	)

	return req, nil
}

func (s *busRequestService) ListPending(ctx context.Context) ([]*model.BusRequest, error) {
	requests, err := s.repo.FindPending(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list pending bus requests", "error", err)
		return nil, apperrors.Internal("Failed to list pending bus requests", err)
	}
	if requests == nil {
		requests = make([]*model.BusRequest, 0)
	}
	return requests, nil
}

// loadOwned fetches a request and verifies ownership. Missing records
// and records owned by someone else produce the same response, so the
// endpoint never reveals whether an id exists.
func (s *busRequestService) loadOwned(ctx context.Context, id string, userID string) (*model.BusRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, requesterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid bus request ID format")
		}
		if errors.Is(err, requesterrors.ErrNotFound) {
			return nil, apperrors.NotFoundOrUnauthorized("Bus request")
		}
		s.cfg.Log.Error("Failed to load bus request", "requestId", id, "error", err)
		return nil, apperrors.Internal("Failed to load bus request", err)
	}

	if req.UserID != userID {
		return nil, apperrors.NotFoundOrUnauthorized("Bus request")
	}

	return req, nil
}

func (s *busRequestService) checkNumberAvailable(ctx context.Context, busNumber string, excludeRequestID string) error {
	_, err := s.buses.FindByNumber(ctx, busNumber)
	if err == nil {
		return apperrors.Conflict("A bus with this number is already published")
	}
	if !errors.Is(err, buserrors.ErrNotFound) {
		return err
	}

	_, err = s.repo.FindActiveByNumber(ctx, busNumber, excludeRequestID)
	if err == nil {
		return apperrors.Conflict("A request for this bus number is already pending or approved")
	}
	if !errors.Is(err, requesterrors.ErrNotFound) {
		return err
	}

	return nil
}

func sanitizeRequest(req *model.BusRequest) {
	req.BusName = sanitizer.NormalizeBusName(req.BusName)
	req.BusNumber = sanitizer.NormalizeBusNumber(req.BusNumber)
	req.BusType = sanitizer.TrimAndNormalize(req.BusType)
	for i := range req.Stoppages {
		req.Stoppages[i].Name = sanitizer.NormalizeStopName(req.Stoppages[i].Name)
		req.Stoppages[i].GoingTime = sanitizer.TrimAndNormalize(req.Stoppages[i].GoingTime)
		req.Stoppages[i].ReturnTime = sanitizer.TrimAndNormalize(req.Stoppages[i].ReturnTime)
	}
}

func applyUpdate(req *model.BusRequest, upd *model.BusRequestUpdate) {
	if upd.BusName != "" {
		req.BusName = upd.BusName
	}
	if upd.BusNumber != "" {
		req.BusNumber = upd.BusNumber
	}
	if upd.BusType != "" {
		req.BusType = upd.BusType
	}
	if upd.Capacity != nil {
		req.Capacity = *upd.Capacity
	}
	if upd.Fare != nil {
		req.Fare = *upd.Fare
	}
	if upd.Amenities != nil {
		req.Amenities = *upd.Amenities
	}
	if upd.Stoppages != nil {
		req.Stoppages = *upd.Stoppages
	}
}

func validationToAppError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := make(map[string]any, len(errs))
		for _, e := range errs {
			details[e.Field] = e.Message
		}
		return apperrors.Validation("Bus request validation failed", details)
	}

	var single validator.ValidationError
	if errors.As(err, &single) {
		return apperrors.Validation("Bus request validation failed", map[string]any{
			single.Field: single.Message,
		})
	}

	return apperrors.Validation(err.Error(), nil)
}

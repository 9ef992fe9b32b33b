package service

import (
	"context"
	"testing"

	buserrors "busport/internal/buses/errors"
	busvalidator "busport/internal/buses/validator"
	requesterrors "busport/internal/requests/errors"
	"busport/pkg/config"
	mongotx "busport/pkg/db/mongo"
	apperrors "busport/pkg/errors"
	"busport/pkg/events"
	"busport/pkg/logger"
	"busport/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mock repositories for testing
type mockBusRequestRepository struct {
	createFunc             func(ctx context.Context, req *model.BusRequest) error
	findByIDFunc           func(ctx context.Context, id string) (*model.BusRequest, error)
	findByUserFunc         func(ctx context.Context, userID string) ([]*model.BusRequest, error)
	findPendingFunc        func(ctx context.Context) ([]*model.BusRequest, error)
	findActiveByNumberFunc func(ctx context.Context, busNumber string, excludeID string) (*model.BusRequest, error)
	replaceFunc            func(ctx context.Context, id string, req *model.BusRequest) error
	markApprovedFunc       func(ctx context.Context, id string) error
	markRejectedFunc       func(ctx context.Context, id string, reason string) error
}

func (m *mockBusRequestRepository) Create(ctx context.Context, req *model.BusRequest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil
}

func (m *mockBusRequestRepository) FindByID(ctx context.Context, id string) (*model.BusRequest, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, requesterrors.ErrNotFound
}

func (m *mockBusRequestRepository) FindByUser(ctx context.Context, userID string) ([]*model.BusRequest, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return []*model.BusRequest{}, nil
}

func (m *mockBusRequestRepository) FindPending(ctx context.Context) ([]*model.BusRequest, error) {
	if m.findPendingFunc != nil {
		return m.findPendingFunc(ctx)
	}
	return []*model.BusRequest{}, nil
}

func (m *mockBusRequestRepository) FindActiveByNumber(ctx context.Context, busNumber string, excludeID string) (*model.BusRequest, error) {
	if m.findActiveByNumberFunc != nil {
		return m.findActiveByNumberFunc(ctx, busNumber, excludeID)
	}
	return nil, requesterrors.ErrNotFound
}

func (m *mockBusRequestRepository) Replace(ctx context.Context, id string, req *model.BusRequest) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, id, req)
	}
	return nil
}

func (m *mockBusRequestRepository) MarkApproved(ctx context.Context, id string) error {
	if m.markApprovedFunc != nil {
		return m.markApprovedFunc(ctx, id)
	}
	return nil
}

func (m *mockBusRequestRepository) MarkRejected(ctx context.Context, id string, reason string) error {
	if m.markRejectedFunc != nil {
		return m.markRejectedFunc(ctx, id, reason)
	}
	return nil
}

func (m *mockBusRequestRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockBusRepository struct {
	createFunc       func(ctx context.Context, bus *model.Bus) error
	findByNumberFunc func(ctx context.Context, busNumber string) (*model.Bus, error)
	updateFunc       func(ctx context.Context, id string, bus *model.Bus) error
}

func (m *mockBusRepository) Create(ctx context.Context, bus *model.Bus) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, bus)
	}
	return nil
}

func (m *mockBusRepository) FindByID(ctx context.Context, id string) (*model.Bus, error) {
	return nil, buserrors.ErrNotFound
}

func (m *mockBusRepository) FindByNumber(ctx context.Context, busNumber string) (*model.Bus, error) {
	if m.findByNumberFunc != nil {
		return m.findByNumberFunc(ctx, busNumber)
	}
	return nil, buserrors.ErrNotFound
}

func (m *mockBusRepository) FindAll(ctx context.Context) ([]*model.Bus, error) {
	return []*model.Bus{}, nil
}

func (m *mockBusRepository) Update(ctx context.Context, id string, bus *model.Bus) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, bus)
	}
	return nil
}

func (m *mockBusRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockBusRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockPublisher struct {
	published []events.ModerationEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event events.ModerationEvent) error {
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		DefaultBusType:  "Non-AC Seater",
		DefaultCapacity: 40,
		DefaultFare:     100,
	}
}

func pendingRequest() *model.BusRequest {
	return &model.BusRequest{
		ID:        "66f000000000000000000001",
		UserID:    "user-1",
		BusName:   "green line",
		BusNumber: "GL-01",
		BusType:   "AC Seater",
		Capacity:  45,
		Fare:      150,
		Amenities: []string{"WiFi"},
		Stoppages: []model.Stoppage{
			{Name: "kolkata", Order: 1, GoingTime: "08:00", ReturnTime: "18:00"},
			{Name: "barasat", Order: 2, GoingTime: "09:15", ReturnTime: "17:00"},
			{Name: "durgapur", Order: 3, GoingTime: "11:30", ReturnTime: "15:45"},
		},
		Status: model.RequestStatusPending,
	}
}

func newModerationService(
	requests *mockBusRequestRepository,
	buses *mockBusRepository,
	publisher *mockPublisher,
) ModerationService {
	return &moderationService{
		requests:  requests,
		buses:     buses,
		validator: busvalidator.NewBusValidator(),
		publisher: publisher,
		cfg:       testConfig(),
	}
}

func TestApprove_PublishesBusWithSubmitterAsOwner(t *testing.T) {
	req := pendingRequest()

	var createdBus *model.Bus
	requests := &mockBusRequestRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BusRequest, error) {
			return req, nil
		},
	}
	buses := &mockBusRepository{
		createFunc: func(ctx context.Context, bus *model.Bus) error {
			createdBus = bus
			return nil
		},
	}
	publisher := &mockPublisher{}

	svc := newModerationService(requests, buses, publisher)

	bus, err := svc.Approve(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if createdBus == nil {
		t.Fatal("expected a bus to be created")
	}
	if bus.OwnerID != "user-1" {
		t.Errorf("expected owner user-1, got %s", bus.OwnerID)
	}
	if bus.BusType != "AC Seater" {
		t.Errorf("valid busType should be kept, got %s", bus.BusType)
	}
	if bus.Capacity != 45 || bus.Fare != 150 {
		t.Errorf("valid capacity/fare should be kept, got %d/%d", bus.Capacity, bus.Fare)
	}
	for i, s := range bus.Stoppages {
		if s.ID == "" {
			t.Errorf("stoppage %d was not assigned an id", i)
		}
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.published))
	}
	if publisher.published[0].Kind != events.KindBusRequestApproved {
		t.Errorf("unexpected event kind %s", publisher.published[0].Kind)
	}
}

func TestApprove_SubstitutesDefaultsForMalformedOptionalFields(t *testing.T) {
	req := pendingRequest()
	req.BusType = "Rickshaw"
	req.Capacity = 5
	req.Fare = 10
	req.Amenities = []string{"WiFi", "Jacuzzi"}

	requests := &mockBusRequestRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BusRequest, error) {
			return req, nil
		},
	}
	buses := &mockBusRepository{}

	svc := newModerationService(requests, buses, &mockPublisher{})

	bus, err := svc.Approve(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bus.BusType != "Non-AC Seater" {
		t.Errorf("expected default bus type, got %s", bus.BusType)
	}
	if bus.Capacity != 40 {
		t.Errorf("expected default capacity 40, got %d", bus.Capacity)
	}
	if bus.Fare != 100 {
		t.Errorf("expected default fare 100, got %d", bus.Fare)
	}
	if len(bus.Amenities) != 1 || bus.Amenities[0] != "WiFi" {
		t.Errorf("unknown amenities should be dropped, got %v", bus.Amenities)
	}
}

func TestApprove_RefreshesExistingBusKeepingOwner(t *testing.T) {
	req := pendingRequest()

	existing := &model.Bus{
		ID:        "66f000000000000000000099",
		BusNumber: "GL-01",
		OwnerID:   "original-owner",
	}

	var updatedID string
	var updatedBus *model.Bus
	requests := &mockBusRequestRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BusRequest, error) {
			return req, nil
		},
	}
	buses := &mockBusRepository{
		findByNumberFunc: func(ctx context.Context, busNumber string) (*model.Bus, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, id string, bus *model.Bus) error {
			updatedID = id
			updatedBus = bus
			return nil
		},
	}

	svc := newModerationService(requests, buses, &mockPublisher{})

	bus, err := svc.Approve(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updatedID != existing.ID {
		t.Errorf("expected update of %s, got %s", existing.ID, updatedID)
	}
	if updatedBus == nil {
		t.Fatal("expected the existing bus to be updated")
	}
	if bus.OwnerID != "original-owner" {
		t.Errorf("re-approval must keep the original owner, got %s", bus.OwnerID)
	}
}

func TestApprove_TerminalRequestAlreadyProcessed(t *testing.T) {
	req := pendingRequest()
	req.Status = model.RequestStatusApproved

	requests := &mockBusRequestRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BusRequest, error) {
			return req, nil
		},
	}

	svc := newModerationService(requests, &mockBusRepository{}, &mockPublisher{})

	_, err := svc.Approve(context.Background(), req.ID)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeAlreadyProcessed {
		t.Errorf("expected %s, got %s", apperrors.CodeAlreadyProcessed, appErr.Code)
	}
}

func TestApprove_LosingStatusRaceAlreadyProcessed(t *testing.T) {
	// Both moderators read the request as pending; the conditional flip
	// catches the loser.
	req := pendingRequest()

	requests := &mockBusRequestRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BusRequest, error) {
			return req, nil
		},
		markApprovedFunc: func(ctx context.Context, id string) error {
			return requesterrors.ErrNotPending
		},
	}

	svc := newModerationService(requests, &mockBusRepository{}, &mockPublisher{})

	_, err := svc.Approve(context.Background(), req.ID)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeAlreadyProcessed {
		t.Errorf("expected %s, got %s", apperrors.CodeAlreadyProcessed, appErr.Code)
	}
}

func TestApprove_BrokenRouteStaysPending(t *testing.T) {
	req := pendingRequest()
	req.Stoppages[1].Order = 1 // duplicate order, defaults cannot fix this

	marked := false
	requests := &mockBusRequestRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BusRequest, error) {
			return req, nil
		},
		markApprovedFunc: func(ctx context.Context, id string) error {
			marked = true
			return nil
		},
	}
	created := false
	buses := &mockBusRepository{
		createFunc: func(ctx context.Context, bus *model.Bus) error {
			created = true
			return nil
		},
	}

	svc := newModerationService(requests, buses, &mockPublisher{})

	_, err := svc.Approve(context.Background(), req.ID)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
	if created {
		t.Error("no bus must be published when validation fails")
	}
	if marked {
		t.Error("request must stay pending when validation fails")
	}
}

func TestReject_RequiresReason(t *testing.T) {
	rejected := false
	requests := &mockBusRequestRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BusRequest, error) {
			return pendingRequest(), nil
		},
		markRejectedFunc: func(ctx context.Context, id string, reason string) error {
			rejected = true
			return nil
		},
	}

	svc := newModerationService(requests, &mockBusRepository{}, &mockPublisher{})

	for _, reason := range []string{"", "   "} {
		_, err := svc.Reject(context.Background(), "66f000000000000000000001", reason)
		if err == nil {
			t.Fatalf("expected error for reason %q, got nil", reason)
		}
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeInvalidInput {
			t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
		}
	}
	if rejected {
		t.Error("request must stay pending when the reason is missing")
	}
}

func TestReject_RecordsReasonAndPublishes(t *testing.T) {
	req := pendingRequest()

	var recordedReason string
	requests := &mockBusRequestRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BusRequest, error) {
			return req, nil
		},
		markRejectedFunc: func(ctx context.Context, id string, reason string) error {
			recordedReason = reason
			return nil
		},
	}
	publisher := &mockPublisher{}

	svc := newModerationService(requests, &mockBusRepository{}, publisher)

	rejected, err := svc.Reject(context.Background(), req.ID, "duplicate of an existing listing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recordedReason != "duplicate of an existing listing" {
		t.Errorf("unexpected recorded reason %q", recordedReason)
	}
	if rejected.Status != model.RequestStatusRejected {
		t.Errorf("expected rejected status, got %s", rejected.Status)
	}
	if rejected.RejectionReason == "" {
		t.Error("expected rejection reason on the returned request")
	}
	if len(publisher.published) != 1 || publisher.published[0].Kind != events.KindBusRequestRejected {
		t.Errorf("expected a rejection event, got %+v", publisher.published)
	}
}

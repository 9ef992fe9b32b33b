package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"busport/pkg/logger"
	"busport/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockBusEditRequestService struct {
	createFunc  func(ctx context.Context, req *model.BusEditRequest) (*model.BusEditRequest, error)
	approveFunc func(ctx context.Context, id string, remark string) (*model.Bus, error)
	rejectFunc  func(ctx context.Context, id string, remark string) (*model.BusEditRequest, error)
}

func (m *mockBusEditRequestService) Create(ctx context.Context, req *model.BusEditRequest) (*model.BusEditRequest, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	req.Status = model.EditStatusPending
	return req, nil
}

func (m *mockBusEditRequestService) ListPending(ctx context.Context) ([]*model.PendingEditRequest, error) {
	return []*model.PendingEditRequest{}, nil
}

func (m *mockBusEditRequestService) Approve(ctx context.Context, id string, remark string) (*model.Bus, error) {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id, remark)
	}
	return &model.Bus{ID: "bus-1"}, nil
}

func (m *mockBusEditRequestService) Reject(ctx context.Context, id string, remark string) (*model.BusEditRequest, error) {
	if m.rejectFunc != nil {
		return m.rejectFunc(ctx, id, remark)
	}
	return &model.BusEditRequest{ID: id, Status: model.EditStatusRejected, AdminRemark: remark}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func passthrough(next httprouter.Handle) httprouter.Handle {
	return next
}

func testRouter(service *mockBusEditRequestService) *httprouter.Router {
	h := NewBusEditRequestHandler(service, testLogger(), passthrough, passthrough)
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestProposeAdd_BuildsTypedRequest(t *testing.T) {
	var got *model.BusEditRequest
	service := &mockBusEditRequestService{
		createFunc: func(ctx context.Context, req *model.BusEditRequest) (*model.BusEditRequest, error) {
			got = req
			return req, nil
		},
	}

	router := testRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bus-edit/bus-1/stoppages",
		strings.NewReader(`{"name":"new stop","goingTime":"09:15"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got == nil {
		t.Fatal("expected service to receive the request")
	}
	if got.Type != model.EditTypeAdd || got.BusID != "bus-1" {
		t.Errorf("unexpected request: type=%s busId=%s", got.Type, got.BusID)
	}
	if got.Data == nil || got.Data.Name == nil || *got.Data.Name != "new stop" {
		t.Errorf("expected payload name to survive decoding, got %+v", got.Data)
	}
}

func TestProposeDelete_CarriesTargetStoppage(t *testing.T) {
	var got *model.BusEditRequest
	service := &mockBusEditRequestService{
		createFunc: func(ctx context.Context, req *model.BusEditRequest) (*model.BusEditRequest, error) {
			got = req
			return req, nil
		},
	}

	router := testRouter(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bus-edit/bus-1/stoppages/stop-2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Type != model.EditTypeDelete || got.StoppageID != "stop-2" {
		t.Errorf("unexpected request: type=%s stoppageId=%s", got.Type, got.StoppageID)
	}
	if got.Data != nil {
		t.Errorf("expected no payload on delete, got %+v", got.Data)
	}
}

func TestProposeUpdate_InvalidBody(t *testing.T) {
	router := testRouter(&mockBusEditRequestService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bus-edit/bus-1/stoppages/stop-2",
		strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestApprove_RemarkIsOptional(t *testing.T) {
	var gotID, gotRemark string
	service := &mockBusEditRequestService{
		approveFunc: func(ctx context.Context, id string, remark string) (*model.Bus, error) {
			gotID, gotRemark = id, remark
			return &model.Bus{ID: "bus-1"}, nil
		},
	}

	router := testRouter(service)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/edit-bus-requests/edit-1/approve", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "edit-1" || gotRemark != "" {
		t.Errorf("unexpected call: id=%s remark=%q", gotID, gotRemark)
	}
}

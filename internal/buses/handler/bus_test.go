package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"busport/pkg/logger"
	"busport/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockBusService struct {
	searchFunc       func(ctx context.Context, from string, to string) ([]model.SearchMatch, error)
	uniqueRoutesFunc func(ctx context.Context) ([]model.RouteEndpoints, error)
}

func (m *mockBusService) Search(ctx context.Context, from string, to string) ([]model.SearchMatch, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, from, to)
	}
	return []model.SearchMatch{}, nil
}

func (m *mockBusService) UniqueRoutes(ctx context.Context) ([]model.RouteEndpoints, error) {
	if m.uniqueRoutesFunc != nil {
		return m.uniqueRoutesFunc(ctx)
	}
	return []model.RouteEndpoints{}, nil
}

func (m *mockBusService) GetAll(ctx context.Context) ([]*model.Bus, error) {
	return []*model.Bus{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestSearch_ResponseEnvelope(t *testing.T) {
	mockService := &mockBusService{
		searchFunc: func(ctx context.Context, from string, to string) ([]model.SearchMatch, error) {
			return []model.SearchMatch{
				{BusID: "bus-1", BusName: "green line", BusNumber: "GL-01"},
			}, nil
		},
	}

	h := &BusHandler{service: mockService, log: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buses/search?from=kol&to=dur", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool                `json:"success"`
		Count   int                 `json:"count"`
		Buses   []model.SearchMatch `json:"buses"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !body.Success {
		t.Error("expected success true")
	}
	if body.Count != 1 || len(body.Buses) != 1 {
		t.Errorf("expected count 1 with 1 bus, got count=%d buses=%d", body.Count, len(body.Buses))
	}
	if body.Buses[0].BusID != "bus-1" {
		t.Errorf("unexpected bus id %s", body.Buses[0].BusID)
	}
}

func TestSearch_EmptyResultKeepsArrayShape(t *testing.T) {
	h := &BusHandler{service: &mockBusService{}, log: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buses/search?from=nowhere&to=elsewhere", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(body["count"]) != "0" {
		t.Errorf("expected count 0, got %s", body["count"])
	}
	if string(body["buses"]) != "[]" {
		t.Errorf("expected empty array, got %s", body["buses"])
	}
}

func TestUniqueRoutes_ResponseEnvelope(t *testing.T) {
	mockService := &mockBusService{
		uniqueRoutesFunc: func(ctx context.Context) ([]model.RouteEndpoints, error) {
			return []model.RouteEndpoints{
				{From: "kolkata", To: "durgapur"},
			}, nil
		},
	}

	h := &BusHandler{service: mockService, log: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bus-routes/unique-routes", nil)
	rec := httptest.NewRecorder()
	h.UniqueRoutes(rec, req, httprouter.Params{})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool                   `json:"success"`
		Routes  []model.RouteEndpoints `json:"routes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success || len(body.Routes) != 1 {
		t.Errorf("unexpected body: %+v", body)
	}
}

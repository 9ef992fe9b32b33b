package service

import (
	"context"
	"testing"

	"busport/pkg/config"
	mongotx "busport/pkg/db/mongo"
	apperrors "busport/pkg/errors"
	"busport/pkg/logger"
	"busport/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mock repositories for testing
type mockBusRepository struct {
	findAllFunc func(ctx context.Context) ([]*model.Bus, error)
}

func (m *mockBusRepository) Create(ctx context.Context, bus *model.Bus) error { return nil }

func (m *mockBusRepository) FindByID(ctx context.Context, id string) (*model.Bus, error) {
	return nil, nil
}

func (m *mockBusRepository) FindByNumber(ctx context.Context, busNumber string) (*model.Bus, error) {
	return nil, nil
}

func (m *mockBusRepository) FindAll(ctx context.Context) ([]*model.Bus, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Bus{}, nil
}

func (m *mockBusRepository) Update(ctx context.Context, id string, bus *model.Bus) error {
	return nil
}

func (m *mockBusRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockBusRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockCounterRepository struct {
	increments []string
	valueFunc  func(ctx context.Context, name string) (int64, error)
}

func (m *mockCounterRepository) Increment(ctx context.Context, name string) error {
	m.increments = append(m.increments, name)
	return nil
}

func (m *mockCounterRepository) Value(ctx context.Context, name string) (int64, error) {
	if m.valueFunc != nil {
		return m.valueFunc(ctx, name)
	}
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func stop(name string, order int) model.Stoppage {
	return model.Stoppage{
		Name:       name,
		Order:      order,
		GoingTime:  "08:00",
		ReturnTime: "18:00",
	}
}

func fixtureBuses() []*model.Bus {
	return []*model.Bus{
		{
			ID:        "bus-1",
			BusName:   "green line",
			BusNumber: "GL-01",
			Stoppages: []model.Stoppage{
				stop("kolkata", 1),
				stop("barasat", 2),
				stop("durgapur", 3),
			},
		},
		{
			ID:        "bus-2",
			BusName:   "blue line",
			BusNumber: "BL-02",
			Stoppages: []model.Stoppage{
				stop("durgapur", 1),
				stop("asansol", 2),
				stop("kolkata", 3),
			},
		},
	}
}

func TestSearch_DirectionalSubstringMatch(t *testing.T) {
	mockRepo := &mockBusRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Bus, error) {
			return fixtureBuses(), nil
		},
	}
	counters := &mockCounterRepository{}

	svc := &busService{repo: mockRepo, counters: counters, cfg: testConfig()}

	// "kol" precedes "dur" only on bus-1; bus-2 runs the other way.
	matches, err := svc.Search(context.Background(), "kol", "dur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].BusID != "bus-1" {
		t.Errorf("expected bus-1, got %s", matches[0].BusID)
	}
	if matches[0].FromStop.Name != "kolkata" {
		t.Errorf("expected fromStop kolkata, got %s", matches[0].FromStop.Name)
	}
	if matches[0].ToStop.Name != "durgapur" {
		t.Errorf("expected toStop durgapur, got %s", matches[0].ToStop.Name)
	}
}

func TestSearch_ReversedDirectionMatchesOtherBus(t *testing.T) {
	mockRepo := &mockBusRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Bus, error) {
			return fixtureBuses(), nil
		},
	}

	svc := &busService{repo: mockRepo, counters: &mockCounterRepository{}, cfg: testConfig()}

	matches, err := svc.Search(context.Background(), "dur", "kol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].BusID != "bus-2" {
		t.Errorf("expected bus-2, got %s", matches[0].BusID)
	}
}

func TestSearch_SameStopBothTermsNoMatch(t *testing.T) {
	// Both terms resolve to the same stop; a zero-length journey is not
	// a route match.
	mockRepo := &mockBusRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Bus, error) {
			return []*model.Bus{
				{
					ID: "bus-1",
					Stoppages: []model.Stoppage{
						stop("kolkata", 1),
						stop("barasat", 2),
						stop("durgapur", 3),
					},
				},
			}, nil
		},
	}

	svc := &busService{repo: mockRepo, counters: &mockCounterRepository{}, cfg: testConfig()}

	matches, err := svc.Search(context.Background(), "kolkata", "kolkata")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestSearch_MissingTermRejected(t *testing.T) {
	svc := &busService{repo: &mockBusRepository{}, counters: &mockCounterRepository{}, cfg: testConfig()}

	tests := []struct {
		name string
		from string
		to   string
	}{
		{"empty from", "", "durgapur"},
		{"empty to", "kolkata", ""},
		{"whitespace from", "   ", "durgapur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), tt.from, tt.to)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeInvalidInput {
				t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
			}
		})
	}
}

func TestSearch_EmptyResultStillCountsQuery(t *testing.T) {
	mockRepo := &mockBusRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Bus, error) {
			return []*model.Bus{}, nil
		},
	}
	counters := &mockCounterRepository{}

	svc := &busService{repo: mockRepo, counters: counters, cfg: testConfig()}

	matches, err := svc.Search(context.Background(), "nowhere", "elsewhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
	if len(counters.increments) != 1 {
		t.Errorf("expected 1 counter increment, got %d", len(counters.increments))
	}
}

func TestUniqueRoutes_DeduplicatesSharedEndpoints(t *testing.T) {
	mockRepo := &mockBusRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Bus, error) {
			return []*model.Bus{
				{
					ID: "bus-1",
					Stoppages: []model.Stoppage{
						stop("kolkata", 1),
						stop("barasat", 2),
						stop("durgapur", 3),
					},
				},
				{
					// Same endpoints, different intermediate stops.
					ID: "bus-2",
					Stoppages: []model.Stoppage{
						stop("kolkata", 1),
						stop("asansol", 2),
						stop("durgapur", 3),
					},
				},
				{
					ID: "bus-3",
					Stoppages: []model.Stoppage{
						stop("asansol", 1),
						stop("barasat", 2),
						stop("siliguri", 3),
					},
				},
			}, nil
		},
	}

	svc := &busService{repo: mockRepo, counters: &mockCounterRepository{}, cfg: testConfig()}

	routes, err := svc.UniqueRoutes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(routes) != 2 {
		t.Fatalf("expected 2 unique routes, got %d", len(routes))
	}
	if routes[0].From != "asansol" || routes[0].To != "siliguri" {
		t.Errorf("unexpected first route: %+v", routes[0])
	}
	if routes[1].From != "kolkata" || routes[1].To != "durgapur" {
		t.Errorf("unexpected second route: %+v", routes[1])
	}
}

func TestUniqueRoutes_SortsStoppagesByOrder(t *testing.T) {
	mockRepo := &mockBusRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Bus, error) {
			return []*model.Bus{
				{
					// Stored out of order; endpoints must follow Order,
					// not slice position.
					ID: "bus-1",
					Stoppages: []model.Stoppage{
						stop("barasat", 2),
						stop("durgapur", 3),
						stop("kolkata", 1),
					},
				},
			}, nil
		},
	}

	svc := &busService{repo: mockRepo, counters: &mockCounterRepository{}, cfg: testConfig()}

	routes, err := svc.UniqueRoutes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(routes))
	}
	if routes[0].From != "kolkata" || routes[0].To != "durgapur" {
		t.Errorf("unexpected route: %+v", routes[0])
	}
}

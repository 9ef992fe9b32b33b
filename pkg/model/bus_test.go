package model

import "testing"

func testBus() *Bus {
	return &Bus{
		BusName:   "Shyamoli Express",
		BusNumber: "WB-01",
		Stoppages: []Stoppage{
			{ID: "c", Name: "asansol", Order: 3, GoingTime: "10:30", ReturnTime: "18:00"},
			{ID: "a", Name: "kolkata", Order: 1, GoingTime: "06:00", ReturnTime: "22:00"},
			{ID: "b", Name: "durgapur", Order: 2, GoingTime: "08:15", ReturnTime: "20:10"},
		},
	}
}

func TestSortedStoppages(t *testing.T) {
	bus := testBus()

	sorted := bus.SortedStoppages()

	wantNames := []string{"kolkata", "durgapur", "asansol"}
	for i, want := range wantNames {
		if sorted[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, sorted[i].Name)
		}
	}

	// Original order must be untouched.
	if bus.Stoppages[0].Name != "asansol" {
		t.Errorf("SortedStoppages mutated the underlying slice")
	}
}

func TestStoppageIndexByID(t *testing.T) {
	bus := testBus()

	if idx := bus.StoppageIndexByID("b"); idx != 2 {
		t.Errorf("expected index 2 for id b, got %d", idx)
	}
	if idx := bus.StoppageIndexByID("missing"); idx != -1 {
		t.Errorf("expected -1 for unknown id, got %d", idx)
	}
}

func TestMaxStoppageOrder(t *testing.T) {
	bus := testBus()
	if got := bus.MaxStoppageOrder(); got != 3 {
		t.Errorf("expected max order 3, got %d", got)
	}

	empty := &Bus{}
	if got := empty.MaxStoppageOrder(); got != 0 {
		t.Errorf("expected 0 for empty stoppages, got %d", got)
	}
}

func TestDepartureTime(t *testing.T) {
	from := &Stoppage{Name: "kolkata", Order: 1, GoingTime: "06:00", ReturnTime: "22:00"}
	to := &Stoppage{Name: "asansol", Order: 3, GoingTime: "10:30", ReturnTime: "18:00"}

	tests := []struct {
		name string
		from *Stoppage
		to   *Stoppage
		want string
	}{
		{"going direction uses going time at from-stop", from, to, "06:00"},
		{"return direction uses return time at from-stop", to, from, "18:00"},
		{"same stop is not a journey", from, from, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DepartureTime(tt.from, tt.to); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsValidBusType(t *testing.T) {
	if !IsValidBusType("Volvo") {
		t.Error("Volvo should be a valid bus type")
	}
	if IsValidBusType("Hovercraft") {
		t.Error("Hovercraft should not be a valid bus type")
	}
}

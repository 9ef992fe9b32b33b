package validator

import (
	"testing"

	"busport/pkg/model"
)

func validBus() *model.Bus {
	return &model.Bus{
		BusName:   "green line",
		BusNumber: "GL-01",
		BusType:   "AC Seater",
		Capacity:  40,
		Fare:      120,
		Amenities: []string{"WiFi"},
		Stoppages: []model.Stoppage{
			{Name: "kolkata", Order: 1, GoingTime: "08:00", ReturnTime: "18:00"},
			{Name: "barasat", Order: 2, GoingTime: "09:15", ReturnTime: "17:00"},
			{Name: "durgapur", Order: 3, GoingTime: "11:30", ReturnTime: "15:45"},
		},
	}
}

func TestValidate_AcceptsWellFormedBus(t *testing.T) {
	v := NewBusValidator()

	if err := v.Validate(validBus()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_StoppageBounds(t *testing.T) {
	v := NewBusValidator()

	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"below minimum", 2, true},
		{"at minimum", 3, false},
		{"at maximum", 10, false},
		{"above maximum", 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := validBus()
			bus.Stoppages = make([]model.Stoppage, 0, tt.count)
			for i := 1; i <= tt.count; i++ {
				bus.Stoppages = append(bus.Stoppages, model.Stoppage{
					Name:       "stop number " + string(rune('a'+i)),
					Order:      i,
					GoingTime:  "08:00",
					ReturnTime: "18:00",
				})
			}

			err := v.Validate(bus)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for %d stoppages, got nil", tt.count)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for %d stoppages: %v", tt.count, err)
			}
		})
	}
}

func TestValidate_CapacityAndFareBounds(t *testing.T) {
	v := NewBusValidator()

	tests := []struct {
		name     string
		capacity int
		fare     int
		wantErr  bool
	}{
		{"valid", 40, 100, false},
		{"capacity too low", 19, 100, true},
		{"capacity too high", 61, 100, true},
		{"fare too low", 40, 49, true},
		{"minimum edges", 20, 50, false},
		{"maximum capacity", 60, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := validBus()
			bus.Capacity = tt.capacity
			bus.Fare = tt.fare

			err := v.Validate(bus)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_RejectsUnknownBusType(t *testing.T) {
	v := NewBusValidator()

	bus := validBus()
	bus.BusType = "Hovercraft"

	if err := v.Validate(bus); err == nil {
		t.Fatal("expected error for unknown bus type, got nil")
	}
}

func TestValidate_RejectsUnknownAmenity(t *testing.T) {
	v := NewBusValidator()

	bus := validBus()
	bus.Amenities = []string{"WiFi", "Jacuzzi"}

	if err := v.Validate(bus); err == nil {
		t.Fatal("expected error for unknown amenity, got nil")
	}
}

func TestValidate_RejectsDuplicateStoppageOrders(t *testing.T) {
	v := NewBusValidator()

	bus := validBus()
	bus.Stoppages[2].Order = bus.Stoppages[1].Order

	if err := v.Validate(bus); err == nil {
		t.Fatal("expected error for duplicate orders, got nil")
	}
}

func TestValidate_RejectsMalformedTimes(t *testing.T) {
	v := NewBusValidator()

	tests := []struct {
		name string
		time string
	}{
		{"out of range hour", "25:00"},
		{"out of range minute", "08:61"},
		{"missing minutes", "08"},
		{"not a time", "morning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := validBus()
			bus.Stoppages[0].GoingTime = tt.time

			if err := v.Validate(bus); err == nil {
				t.Errorf("expected error for time %q, got nil", tt.time)
			}
		})
	}
}

package model

import (
	"regexp"
	"sort"
	"time"
)

const (
	MinStoppages = 3
	MaxStoppages = 10

	MinCapacity = 20
	MaxCapacity = 60
	MinFare     = 50
)

// BusTypes is the closed set of vehicle classes a bus can be listed as.
var BusTypes = []string{
	"AC Seater",
	"Non-AC Seater",
	"Sleeper AC",
	"Sleeper Non-AC",
	"Volvo",
	"Luxury",
}

// Amenities is the closed set a listing's amenities must be drawn from.
var Amenities = []string{
	"WiFi",
	"Charging Point",
	"Water Bottle",
	"Blanket",
	"Reading Light",
	"CCTV",
	"First Aid Kit",
	"GPS Tracking",
}

// Stoppage is one stop on a bus's route. Order is the position along the
// "going" direction; GoingTime/ReturnTime are HH:MM wall-clock departure
// times for the two traversal directions.
type Stoppage struct {
	ID         string `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string `bson:"name" json:"name" validate:"required,min=2,max=60"`
	Order      int    `bson:"order" json:"order" validate:"required,min=1"`
	GoingTime  string `bson:"goingTime" json:"goingTime" validate:"required"`
	ReturnTime string `bson:"returnTime" json:"returnTime" validate:"required"`
}

// Bus is a published route listing. Buses enter this collection only
// through moderation approval (or direct admin creation) and are mutated
// only by re-approval of submissions or approved edit requests.
type Bus struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty" validate:"omitempty,mongodb"`
	BusName   string     `bson:"busName" json:"busName" validate:"required,min=2,max=100"`
	BusNumber string     `bson:"busNumber" json:"busNumber" validate:"required,min=2,max=20"`
	BusType   string     `bson:"busType" json:"busType" validate:"required"`
	Capacity  int        `bson:"capacity" json:"capacity" validate:"required,min=20,max=60"`
	Fare      int        `bson:"fare" json:"fare" validate:"required,min=50"`
	Amenities []string   `bson:"amenities,omitempty" json:"amenities,omitempty" validate:"omitempty,dive,required"`
	Stoppages []Stoppage `bson:"stoppages" json:"stoppages" validate:"required,min=3,max=10,dive"`
	OwnerID   string     `bson:"owner,omitempty" json:"owner,omitempty"`
	CreatedAt time.Time  `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time  `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

func IsValidBusType(busType string) bool {
	for _, t := range BusTypes {
		if t == busType {
			return true
		}
	}
	return false
}

func IsValidAmenity(amenity string) bool {
	for _, a := range Amenities {
		if a == amenity {
			return true
		}
	}
	return false
}

// SortedStoppages returns a copy of the stoppages ordered by Order
// ascending, i.e. in the "going" direction.
func (b *Bus) SortedStoppages() []Stoppage {
	sorted := make([]Stoppage, len(b.Stoppages))
	copy(sorted, b.Stoppages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return sorted
}

// StoppageIndexByID returns the index of the stoppage with the given
// sub-document id, or -1.
func (b *Bus) StoppageIndexByID(id string) int {
	for i, s := range b.Stoppages {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// MaxStoppageOrder returns the highest Order in the list, 0 when empty.
func (b *Bus) MaxStoppageOrder() int {
	maxOrder := 0
	for _, s := range b.Stoppages {
		if s.Order > maxOrder {
			maxOrder = s.Order
		}
	}
	return maxOrder
}

var timeOfDayRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidTimeOfDay reports whether s is a wall-clock HH:MM time.
func IsValidTimeOfDay(s string) bool {
	return timeOfDayRegex.MatchString(s)
}

// StoppageOrdersUnique reports whether every Order in the list is
// distinct. Duplicate orders make the going/return direction ambiguous.
func StoppageOrdersUnique(stoppages []Stoppage) bool {
	seen := make(map[int]bool, len(stoppages))
	for _, s := range stoppages {
		if seen[s.Order] {
			return false
		}
		seen[s.Order] = true
	}
	return true
}

// DepartureTime resolves which of the two direction times applies to a
// journey between two stops of the same bus: the going time at the
// from-stop when it precedes the to-stop, the return time when it
// follows it. A same-stop pair is not a journey and yields no time.
func DepartureTime(from, to *Stoppage) string {
	switch {
	case from.Order < to.Order:
		return from.GoingTime
	case from.Order > to.Order:
		return from.ReturnTime
	default:
		return ""
	}
}

// SearchMatch is one result of a route search: the matched bus's
// descriptive fields plus the specific stoppages the query terms hit.
type SearchMatch struct {
	BusID     string   `json:"busId"`
	BusName   string   `json:"busName"`
	BusNumber string   `json:"busNumber"`
	BusType   string   `json:"busType"`
	Capacity  int      `json:"capacity"`
	Fare      int      `json:"fare"`
	Amenities []string `json:"amenities,omitempty"`
	FromStop  Stoppage `json:"fromStop"`
	ToStop    Stoppage `json:"toStop"`
}

// RouteEndpoints is a de-duplicated (origin, destination) pair derived
// from the first and last stop of published buses.
type RouteEndpoints struct {
	From string `json:"from"`
	To   string `json:"to"`
}

package model

import "time"

// BusRequest statuses. pending is the only non-terminal state; a
// user-driven update resets a rejected request back to pending in place.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// BusRequest is a user-submitted candidate bus listing awaiting
// moderation. BusType, Capacity, Fare and Amenities are optional at
// submission time; moderation substitutes defaults for malformed values
// on approval.
type BusRequest struct {
	ID              string     `bson:"_id,omitempty" json:"id,omitempty" validate:"omitempty,mongodb"`
	UserID          string     `bson:"userId" json:"userId" validate:"required"`
	BusName         string     `bson:"busName" json:"busName" validate:"required,min=2,max=100"`
	BusNumber       string     `bson:"busNumber" json:"busNumber" validate:"required,min=2,max=20"`
	BusType         string     `bson:"busType,omitempty" json:"busType,omitempty"`
	Capacity        int        `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Fare            int        `bson:"fare,omitempty" json:"fare,omitempty"`
	Amenities       []string   `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Stoppages       []Stoppage `bson:"stoppages" json:"stoppages" validate:"required,min=3,max=10,dive"`
	Status          string     `bson:"status" json:"status"`
	RejectionReason string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt       time.Time  `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

func (r *BusRequest) IsTerminal() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}

// BusRequestUpdate carries the fields a submitter may change on their
// own pending or rejected request. Nil/empty fields are left untouched.
type BusRequestUpdate struct {
	BusName   string      `json:"busName,omitempty"`
	BusNumber string      `json:"busNumber,omitempty"`
	BusType   string      `json:"busType,omitempty"`
	Capacity  *int        `json:"capacity,omitempty"`
	Fare      *int        `json:"fare,omitempty"`
	Amenities *[]string   `json:"amenities,omitempty"`
	Stoppages *[]Stoppage `json:"stoppages,omitempty"`
}

package model

import "time"

const (
	EditTypeAdd    = "ADD"
	EditTypeUpdate = "UPDATE"
	EditTypeDelete = "DELETE"

	EditStatusPending  = "PENDING"
	EditStatusApproved = "APPROVED"
	EditStatusRejected = "REJECTED"
)

// StoppageChange is the payload of an edit request, keyed by the request
// type: ADD carries a full new stop (Name required), UPDATE carries a
// partial patch of the targeted stop, DELETE carries nothing.
type StoppageChange struct {
	Name       *string `bson:"name,omitempty" json:"name,omitempty"`
	Order      *int    `bson:"order,omitempty" json:"order,omitempty"`
	GoingTime  *string `bson:"goingTime,omitempty" json:"goingTime,omitempty"`
	ReturnTime *string `bson:"returnTime,omitempty" json:"returnTime,omitempty"`
}

// BusEditRequest is a proposed incremental change to a published bus's
// stoppages. It never mutates the bus itself; only moderation approval
// applies the encoded change.
type BusEditRequest struct {
	ID          string          `bson:"_id,omitempty" json:"id,omitempty" validate:"omitempty,mongodb"`
	BusID       string          `bson:"busId" json:"busId" validate:"required,mongodb"`
	StoppageID  string          `bson:"stoppageId,omitempty" json:"stoppageId,omitempty"`
	RequestedBy string          `bson:"requestedBy" json:"requestedBy" validate:"required"`
	Type        string          `bson:"type" json:"type" validate:"required,oneof=ADD UPDATE DELETE"`
	Data        *StoppageChange `bson:"data,omitempty" json:"data,omitempty"`
	Status      string          `bson:"status" json:"status"`
	AdminRemark string          `bson:"adminRemark,omitempty" json:"adminRemark,omitempty"`
	CreatedAt   time.Time       `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

func (r *BusEditRequest) IsTerminal() bool {
	return r.Status == EditStatusApproved || r.Status == EditStatusRejected
}

// PendingEditRequest is the admin-facing expansion of an edit request
// with the bus and submitter display fields joined in.
type PendingEditRequest struct {
	BusEditRequest  `bson:",inline"`
	BusName         string `json:"busName"`
	BusNumber       string `json:"busNumber"`
	RequestedByName string `json:"requestedByName"`
}

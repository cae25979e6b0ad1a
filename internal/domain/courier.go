package domain

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// CourierAvailability is the courier's live presence. Only couriers that are
// online and approved may claim unassigned orders.
type CourierAvailability struct {
	CourierID int64          `json:"courier_id"`
	Online    bool           `json:"online"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	Approval  ApprovalStatus `json:"approval"`
}

package domain

import "time"

// AdminResponse is the single live admin reply attached to a complaint.
type AdminResponse struct {
	ID          int64
	ComplaintID int64
	Response    string
	CreatedAt   time.Time
}

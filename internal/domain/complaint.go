package domain

import "time"

// ComplaintStatus enumerates workflow phases. Ownership is tracked separately
// through AssigneeID, so a Pending complaint may already have an assignee.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

// IsValid reports whether s is a known status.
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "Low"
	PriorityMedium ComplaintPriority = "Medium"
	PriorityHigh   ComplaintPriority = "High"
)

// IsValid reports whether p is a known priority.
func (p ComplaintPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Complaint is the aggregate filed by a user.
type Complaint struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	AssigneeID  *int64
	Description string
	Priority    ComplaintPriority
	Status      ComplaintStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAssignedTo reports whether userID is the current assignee.
func (c *Complaint) IsAssignedTo(userID int64) bool {
	return c != nil && c.AssigneeID != nil && *c.AssigneeID == userID
}

// ComplaintView is a complaint joined with the data list and detail reads show.
type ComplaintView struct {
	Complaint
	CategoryName string
	UserName     string
	UserEmail    string
	AssigneeName *string
	Response     *string
	ResponseDate *time.Time
}

// ComplaintStatistics aggregates complaint counts per status.
type ComplaintStatistics struct {
	Total      int64
	Pending    int64
	InProgress int64
	Resolved   int64
}

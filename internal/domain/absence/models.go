package absence

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, true
	}
	return "", false
}

type Request struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	EmployeeName   string     `json:"employeeName,omitempty"`
	EmployeeEmail  string     `json:"-"`
	StartDate      string     `json:"startDate"`
	EndDate        string     `json:"endDate"`
	Days           int        `json:"days"`
	Reason         string     `json:"reason,omitempty"`
	Status         Status     `json:"status"`
	ApprovedBy     string     `json:"approvedBy,omitempty"`
	ApprovedByName string     `json:"approvedByName,omitempty"`
	RequestedAt    time.Time  `json:"requestedAt"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	Comments       string     `json:"comments,omitempty"`
}

type NewRequest struct {
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

type Decision struct {
	Status   Status
	Comments string
}

type Filter struct {
	EmployeeID string
	Status     Status
	Limit      int
	Offset     int
}

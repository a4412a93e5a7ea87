package profile

import "time"

const DateLayout = "2006-01-02"

// Basic is the part of a profile every authenticated user may see.
type Basic struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	EmployeeID  string `json:"employeeId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Department  string `json:"department,omitempty"`
	Position    string `json:"position,omitempty"`
	ManagerID   string `json:"managerId,omitempty"`
	ManagerName string `json:"managerName,omitempty"`
}

func (b Basic) FullName() string {
	return b.FirstName + " " + b.LastName
}

type Detail struct {
	HireDate              string    `json:"hireDate,omitempty"`
	Phone                 string    `json:"phone,omitempty"`
	Address               string    `json:"address,omitempty"`
	EmergencyContactName  string    `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string    `json:"emergencyContactPhone,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Profile serialises flat; a nil Detail yields the basic view.
type Profile struct {
	Basic
	*Detail
}

type Update struct {
	FirstName             string
	LastName              string
	Department            string
	Position              string
	HireDate              *time.Time
	Phone                 string
	Address               string
	EmergencyContactName  string
	EmergencyContactPhone string
	// ManagerID is left untouched when nil; an empty string clears it.
	ManagerID *string
}

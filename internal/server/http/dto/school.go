package dto

import "time"

// SchoolRequest registers a school pending approval.
type SchoolRequest struct {
	Name string `json:"name" binding:"required"`
}

// SchoolResponse mirrors a stored school.
type SchoolResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

// StudentRequest enrolls a learner.
type StudentRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Grade    string `json:"grade,omitempty"`
}

// StudentResponse mirrors a stored student.
type StudentResponse struct {
	ID       int64  `json:"id"`
	SchoolID int64  `json:"schoolId"`
	FullName string `json:"fullName"`
	Grade    string `json:"grade,omitempty"`
}

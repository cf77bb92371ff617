package model

import "time"

// School is an institution orders may be placed for. Orders can also carry a
// free-form requested school name until the school is approved as an entity.
type School struct {
	ID        int64
	Name      string
	Approved  bool
	CreatedAt time.Time
}

// Student is a named learner at a school, referenced by PURCHASE orders.
type Student struct {
	ID       int64
	SchoolID int64
	FullName string
	Grade    string
}

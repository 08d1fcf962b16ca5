package model

import (
	"strings"
	"time"
)

// FamilyMember belongs to a resident and is used to pre-fill requests made on
// the member's behalf.
type FamilyMember struct {
	ID           int64     `json:"id" db:"id"`
	ResidentID   int64     `json:"resident_id" db:"resident_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	MiddleName   string    `json:"middle_name" db:"middle_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Relationship string    `json:"relationship" db:"relationship"`
	DateOfBirth  *Date     `json:"date_of_birth" db:"date_of_birth"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (f *FamilyMember) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{f.FirstName, f.MiddleName, f.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

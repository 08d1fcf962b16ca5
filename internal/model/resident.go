package model

import "time"

// Resident is the one-to-one extension of a User with role resident.
type Resident struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	DateOfBirth *Date     `json:"date_of_birth" db:"date_of_birth"`
	PurokID     *int64    `json:"purok_id" db:"purok_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ResidentProfile is the resident joined with its user record plus the
// derived attributes computed at read time.
type ResidentProfile struct {
	Resident
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Email     string `json:"email" db:"email"`
	Age       *int   `json:"age" db:"-"`
	IsSenior  bool   `json:"is_senior" db:"-"`
}

func (p *ResidentProfile) FullName() string {
	u := User{FirstName: p.FirstName, LastName: p.LastName}
	return u.FullName()
}

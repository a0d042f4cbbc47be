package domain

import "time"

type Role string

const (
	RoleRenter Role = "renter"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	LicenseNumber string    `json:"license_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AgeAt returns the user's age in whole years at the given instant, used
// for the young-driver surcharge.
func (u *User) AgeAt(t time.Time) int {
	years := t.Year() - u.DateOfBirth.Year()
	anniversary := u.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(t) {
		years--
	}
	return years
}

package domain

import "time"

// User is the aggregate root for an account and the roles it owns.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastUpdated  time.Time  `json:"last_updated"`
	Roles        []UserRole `json:"roles"`
}

// HasRole reports whether the user already holds role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// Touch refreshes LastUpdated to now, keeping it strictly increasing even
// when the clock has not advanced past the stored millisecond.
func (u *User) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	if !now.After(u.LastUpdated) {
		now = u.LastUpdated.Add(time.Millisecond)
	}
	u.LastUpdated = now
}

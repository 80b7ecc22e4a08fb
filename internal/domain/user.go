package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account in the system. PasswordHash is empty for accounts that
// only ever signed in through Google.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	GoogleID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func (u *User) Validate() error {
	var errs ValidationErrors
	if u.Username == "" {
		errs = append(errs, NewMissingFieldError("username"))
	}
	if u.Email == "" {
		errs = append(errs, NewMissingFieldError("email"))
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		errs = append(errs, NewInvalidFormatError("role", u.Role))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

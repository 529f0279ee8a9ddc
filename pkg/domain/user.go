package domain

import "errors"

// User is the profile record of an authenticated account.
type User struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	DateOfBirth       Date   `json:"dateOfBirth,omitzero"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	Address           string `json:"address,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// Validate checks the fields every caller relies on.
func (u User) Validate() error {
	if u.ID <= 0 {
		return errors.New("user: missing id")
	}
	if u.Username == "" {
		return errors.New("user: missing username")
	}
	return nil
}

// DisplayName returns "First Last" when known, else the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return u.Username
}

// UserPatch is a partial profile. Nil fields are left untouched by Apply.
type UserPatch struct {
	Username          *string `json:"username,omitempty"`
	Email             *string `json:"email,omitempty"`
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	DateOfBirth       *Date   `json:"dateOfBirth,omitempty"`
	PhoneNumber       *string `json:"phoneNumber,omitempty"`
	Address           *string `json:"address,omitempty"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
}

// Apply returns u with every non-nil field of p copied over it.
func (p UserPatch) Apply(u User) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = *p.DateOfBirth
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.ProfilePictureURL != nil {
		u.ProfilePictureURL = *p.ProfilePictureURL
	}
	return u
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p == UserPatch{}
}

// UserUpdate is the body of a profile update. Password is sent only when set.
type UserUpdate struct {
	UserPatch
	Password *string `json:"password,omitempty"`
}

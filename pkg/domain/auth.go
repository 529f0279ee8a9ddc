package domain

import "errors"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login. The credential arrives
// as "jwtToken" from the current service and as "token" from older builds.
type LoginResponse struct {
	JWTToken  string `json:"jwtToken,omitempty"`
	Token     string `json:"token,omitempty"`
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// BearerToken returns whichever credential field is populated.
func (r LoginResponse) BearerToken() string {
	if r.JWTToken != "" {
		return r.JWTToken
	}
	return r.Token
}

// Validate fails when the response carries no credential.
func (r LoginResponse) Validate() error {
	if r.BearerToken() == "" {
		return errors.New("login response: missing token")
	}
	return nil
}

// Profile builds the user record embedded in the login response.
// The login username is used when the server omits it.
func (r LoginResponse) Profile(username string) User {
	u := User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
	if u.Username == "" {
		u.Username = username
	}
	return u
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	Email             string `json:"email"`
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	DateOfBirth       Date   `json:"dateOfBirth,omitzero"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	Address           string `json:"address,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// Validate checks the fields the service requires.
func (r RegisterRequest) Validate() error {
	switch {
	case r.Username == "":
		return errors.New("username is required")
	case r.Password == "":
		return errors.New("password is required")
	case r.Email == "":
		return errors.New("email is required")
	}
	return nil
}

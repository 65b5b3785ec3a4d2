package models

// RegisterRequest represents a registration request
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"`
	Description string `json:"description"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the explicit allow-list of fields an update may touch.
// Pointer fields distinguish "not submitted" from "set to zero value".
// Role and Active are applied only when the caller is an admin.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	Description *string `json:"description,omitempty"`
	Role        *Role   `json:"role,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// Empty reports whether no field was submitted
func (r *UpdateUserRequest) Empty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil &&
		r.Password == nil && r.DateOfBirth == nil && r.Description == nil &&
		r.Role == nil && r.Active == nil
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

// RefreshResponse is returned on successful token refresh
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

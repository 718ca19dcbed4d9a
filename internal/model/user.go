package model

// User is the identity record returned by the auth and profile endpoints.
// Optional columns decode to their zero value when the API sends null.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	MobileNumber string `json:"mobile_number"`
	Email        string `json:"email,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
}

// AuthResponse is the body of a successful signup or signin.
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// SignupRequest is posted to /auth/signup/. An empty Email is left out of
// the payload entirely.
type SignupRequest struct {
	Username        string `json:"username"`
	MobileNumber    string `json:"mobile_number"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Email           string `json:"email,omitempty"`
}

// SigninRequest is posted to /auth/signin/.
type SigninRequest struct {
	MobileNumber string `json:"mobile_number"`
	Password     string `json:"password"`
}

// ProfileUpdate carries the user fields that may be changed through
// /profile/update/. Nil pointers are not sent.
type ProfileUpdate struct {
	Username     *string `json:"username,omitempty"`
	MobileNumber *string `json:"mobile_number,omitempty"`
	Email        *string `json:"email,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
}

// PasswordChange is posted to /profile/change-password/.
type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

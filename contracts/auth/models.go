// Package auth hosts the token exchange shapes shared by the backend and clients.
package auth

import id "coldchain/pkg/domain"

// ContractVersion identifies the contract schema version for compatibility checks.
const ContractVersion = "v1.0.0"

// TokenResponse is returned by sign-up, sign-in and refresh.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	UserID       id.UserID `json:"user_id"`
}

type PasswordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshGrant struct {
	RefreshToken string `json:"refresh_token"`
}

// SignUp is the body of POST /auth/signup.
type SignUp struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ProfileUpdate is the body of PATCH /me. Nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

package handler

import (
	"strings"

	"coldchain/internal/auth/models"
	"coldchain/internal/auth/service"
	strutil "coldchain/pkg/string"
	"coldchain/pkg/validation"
)

type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=32"`
}

func (r *SignUpRequest) Normalize() {
	strutil.TrimStrings(&r.FirstName, &r.LastName, &r.Phone)
	r.Email = strutil.NormalizeEmail(r.Email)
}

func (r *SignUpRequest) Validate() error {
	return validation.Validate(r)
}

func (r *SignUpRequest) ToCommand() service.SignUpCommand {
	return service.SignUpCommand{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
	}
}

type TokenRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *TokenRequest) Normalize() {
	r.Email = strutil.NormalizeEmail(r.Email)
}

func (r *TokenRequest) Validate() error {
	return validation.Validate(r)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=256"`
}

func (r *RefreshRequest) Normalize() {
	strutil.TrimStrings(&r.RefreshToken)
}

func (r *RefreshRequest) Validate() error {
	return validation.Validate(r)
}

// UpdateProfileRequest uses pointers so an omitted field differs from an
// explicit empty value.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,notblank,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

func (r *UpdateProfileRequest) Normalize() {
	for _, p := range []*string{r.FirstName, r.LastName, r.Phone} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

func (r *UpdateProfileRequest) Validate() error {
	return validation.Validate(r)
}

func (r *UpdateProfileRequest) ToChange() models.ProfileChange {
	return models.ProfileChange{FirstName: r.FirstName, LastName: r.LastName, Phone: r.Phone}
}

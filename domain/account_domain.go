package domain

import "errors"

var (
	MessageSuccessRegister = "account created"
	MessageSuccessLogin    = "login success"
	MessageSuccessLogout   = "logged out"
	MessageFailedRegister  = "failed to create account"
	MessageFailedLogin     = "failed to login"
	MessageFailedLogout    = "failed to logout"

	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type (
	AccountRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	RegisterResponse struct {
		UID   string `json:"uid"`
		Email string `json:"email"`
	}

	LoginResponse struct {
		UID          string `json:"uid"`
		IDToken      string `json:"idToken,omitempty"`
		RefreshToken string `json:"refreshToken,omitempty"`
		Token        string `json:"token"`
	}
)

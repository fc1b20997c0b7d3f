package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for any of the three login realms.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,max=160"`
	Senha     string `json:"senha" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the resolved principal and a bearer token for API clients.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int64     `json:"expiresIn"`
	IssuedAt    time.Time `json:"issuedAt"`
	Principal   Principal `json:"principal"`
}

// PrincipalClaims is the JWT payload carrying a principal.
type PrincipalClaims struct {
	Principal
	jwt.RegisteredClaims
}

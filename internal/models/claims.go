package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a bearer token. The backend signs it; the client
// only reads the expiry to decide whether a login is needed before calling.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

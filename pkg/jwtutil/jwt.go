package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"northwind-service/pkg/config"
)

var (
	secret     = []byte("secret-key")
	expiration = time.Hour
)

// Initialize configures the signing key and token lifetime.
func Initialize(cfg *config.JWTConfig) {
	secret = []byte(cfg.SigningKey)
	expiration = time.Duration(cfg.ExpirationMinutes) * time.Minute
}

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	Email  string   `json:"email"`
	UserID uint     `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries the given role claim.
func (c *UserClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GenerateToken creates a signed JWT carrying the user's identity and roles.
// It returns the token string and its expiry time.
func GenerateToken(email string, userID uint, roles []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiration)
	claims := UserClaims{
		Email:  email,
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

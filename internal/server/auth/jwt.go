// Package auth issues and verifies the HS256 access tokens used by the
// HTTP API.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nitelabs/niteos/internal/shared"
)

// Claims carries the standard claim set plus the account id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies the signature and expiry and returns the
// account id. Any failure is reported as shared.ErrorInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", shared.ErrorInvalidToken
	}

	if !token.Valid {
		return "", shared.ErrorInvalidToken
	}

	return claims.UserID, nil
}

// Package auth implements the credential primitives of the server: signed
// bearer tokens and password hashing.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered JWT claims plus the authenticated user's id
// as a decimal string. The user id is the only subject the system embeds;
// all authorization is re-derived from it at request time.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken issues an HS256-signed token for userID that expires after
// validityDuration.
func GenerateToken(userID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: strconv.FormatInt(userID, 10),
	})

	return token.SignedString(secretKey)
}

// GetUserIDFromToken verifies tokenString against secretKey and returns the
// embedded user id. Expired tokens yield common.ErrTokenExpired; anything
// else that fails verification yields common.ErrInvalidToken. The store is
// never consulted here.
func GetUserIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}

	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}

	return userID, nil
}

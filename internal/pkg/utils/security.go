package utils

import (
	"errors"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"

	"github.com/golang-jwt/jwt/v4"
)

var (
	errInvalidSigningMethod = errors.New("invalid token signing method")
	errInvalidClaims        = errors.New("token claims missing user_id or role")
)

// ParseAccessJWT validates an HS256 bearer token and returns its session.
func ParseAccessJWT(tokenString, secret string) (*models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSigningMethod
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, exceptions.ErrTokenInvalidOrExpired(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, exceptions.ErrTokenInvalidOrExpired(errInvalidClaims)
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return nil, exceptions.ErrTokenInvalidOrExpired(errInvalidClaims)
	}

	return &models.Session{UserID: userID, Role: role}, nil
}

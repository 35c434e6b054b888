package auth

import (
	"errors"
	"time"

	"blogbox/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the JWT payload: the subject's user id and email plus the
// registered expiry/issuance metadata.
//
// Tokens are stateless: the server keeps no session and no revocation list,
// so a minted token stays valid until its expiry. Known limitation.
type Claims struct {
	UserID uint64 `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 token binding the user id and email,
// valid for config.JWT.AccessExpire seconds (1 hour by default).
func GenerateToken(userID uint64, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(config.GlobalConfig.JWT.AccessExpire) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.GlobalConfig.JWT.Secret))
}

// ParseToken validates signature + expiry and returns the claims.
func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

package util

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded shape of the upstream OAuth collaborator's session
// assertion (spec §3 "Session / AuthContext"): userId plus the guild
// membership and role flags the capability predicates in domain/authz
// consume directly.
type Claims struct {
	UserID       string   `json:"user_id"`
	Username     string   `json:"username"`
	IsAdmin      bool     `json:"is_admin"`
	IsSuperAdmin bool     `json:"is_super_admin"`
	GuildIDs     []string `json:"guild_ids"`
	jwt.RegisteredClaims
}

// GenerateJWT issues a session assertion carrying the session fields
// domain/authz.AuthContext is built from.
func GenerateJWT(userID, username string, isAdmin, isSuperAdmin bool, guildIDs []string, secret string, expirationHours int) (string, error) {
	claims := &Claims{
		UserID:       userID,
		Username:     username,
		IsAdmin:      isAdmin,
		IsSuperAdmin: isSuperAdmin,
		GuildIDs:     guildIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * time.Duration(expirationHours))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT validates a session assertion and returns its claims.
func ValidateJWT(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

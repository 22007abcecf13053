// Package auth issues and verifies the bearer tokens used by the trainer
// dashboard, the admin console and trainerctl.
//
// ────────────────────────────────────────────────────────────────────
// LEARNING NOTE: what is inside a token?
// ────────────────────────────────────────────────────────────────────
// A token is a JWT signed with HS256:
//
//	HEADER.PAYLOAD.SIGNATURE
//
// The PAYLOAD carries the user id and role. Every /api/trainer route
// scopes its data by that user id, so a trainer can only ever see their
// own clients, sessions and coupons. Because the signature is an HMAC of
// HEADER+PAYLOAD keyed by the server secret, a client that edits its own
// user id or promotes itself to "admin" produces a token that no longer
// verifies.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims are the JWT claims embedded in each token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenDuration is how long a session token stays valid. A trainer who
// leaves the dashboard open over a weekend gets a 401 on Monday and logs
// in again.
const TokenDuration = 48 * time.Hour

// GenerateToken creates a signed JWT for the given user.
func GenerateToken(userID, role, secret string) (string, error) {
	return GenerateTokenAt(userID, role, secret, time.Now())
}

// GenerateTokenAt is GenerateToken with an explicit issue time, used in
// tests to mint tokens that have already expired.
func GenerateTokenAt(userID, role, secret string, issued time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(issued),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a JWT string and returns the embedded claims.
// It rejects tokens with:
//   - wrong or missing signature
//   - expired tokens (ExpiresAt in the past)
//   - unexpected signing algorithm
func ParseToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		// Guard against "alg:none" or RS256 tokens being passed to an HS256 server.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// HashPassword returns the bcrypt hash stored on a UserRecord.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

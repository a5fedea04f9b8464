package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidity is how long an issued token remains accepted. There is no
// revocation list; expiry is the only termination mechanism for a session.
const TokenValidity = 24 * time.Hour

// ErrInvalidToken is the single error returned for every verification
// failure. Malformed, tampered, expired and wrong-algorithm tokens are
// indistinguishable to callers, so no diagnostic leaks to the client.
var ErrInvalidToken = errors.New("token is invalid or expired")

// Claims defines the JWT claims structure.
type Claims struct {
	UserID  int64 `json:"user_id"`
	IsAdmin bool  `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed session tokens. The signing secret
// is fixed at construction; rotating it invalidates all outstanding tokens.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager creates a TokenManager signing with the given secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// Issue creates a signed token for the given user, expiring after TokenValidity.
func (m *TokenManager) Issue(userID int64, isAdmin bool) (string, error) {
	issuedAt := m.now()
	claims := &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenValidity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token string, returning its claims.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

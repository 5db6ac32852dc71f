// Package auth issues and verifies the service's HS256 session tokens.
package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// ContextUserKey is the gin context key carrying the authenticated user id.
const ContextUserKey = "userID"

// Claims is the token payload.
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// Manager signs and parses tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// GenerateToken issues a signed token for the user.
func (m *Manager) GenerateToken(userID int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken validates a token and returns the user id it carries.
func (m *Manager) ParseToken(tokenString string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// user id in the gin context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := m.userFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// UserFromSocketRequest authenticates a websocket upgrade request. Browsers
// cannot set headers on upgrade, so a token query parameter is accepted too.
func (m *Manager) UserFromSocketRequest(r *http.Request) (int, error) {
	if token := r.URL.Query().Get("token"); token != "" {
		return m.ParseToken(token)
	}
	return m.userFromRequest(r)
}

func (m *Manager) userFromRequest(r *http.Request) (int, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, ErrInvalidToken
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return 0, ErrInvalidToken
	}
	return m.ParseToken(tokenString)
}

// UserID extracts the authenticated user id set by Middleware.
func UserID(c *gin.Context) (int, bool) {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(int)
	return id, ok
}

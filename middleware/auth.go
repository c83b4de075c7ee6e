package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"foodrunner-api/models"
	"foodrunner-api/policy"
)

const TokenCookie = "token"

type Claims struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type TokenManager struct {
	secret  []byte
	expiry  time.Duration
	revoked RevocationChecker
}

// NewTokenManager signs HS256 tokens. revoked may be nil.
func NewTokenManager(secret string, expiry time.Duration, revoked RevocationChecker) *TokenManager {
	return &TokenManager{secret: []byte(secret), expiry: expiry, revoked: revoked}
}

func (m *TokenManager) Expiry() time.Duration { return m.expiry }

// Issue creates a signed JWT for a given user
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

var errInvalidToken = errors.New("invalid or expired token")

// Parse validates signature, algorithm and expiry.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// AuthRequired validates the JWT and injects claims into context
func (m *TokenManager) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			abort(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}
		claims, err := m.Parse(tokenStr)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if m.revoked != nil {
			revoked, err := m.revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				abort(c, http.StatusServiceUnavailable, "Unable to verify token")
				return
			}
			if revoked {
				abort(c, http.StatusUnauthorized, "Token has been revoked")
				return
			}
		}
		c.Set("claims", claims)
		c.Set("userID", claims.UserID)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			abort(c, http.StatusForbidden, "Role not found in context")
			return
		}
		callerRole := models.UserRole(roleVal.(string))
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "User role "+string(callerRole)+" is not authorized to access this route. Required role(s): "+rolesString(roles))
	}
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// GetClaims extracts the verified token claims from context
func GetClaims(c *gin.Context) *Claims {
	val, ok := c.Get("claims")
	if !ok {
		return nil
	}
	return val.(*Claims)
}

// GetPrincipal extracts the caller identity from context
func GetPrincipal(c *gin.Context) policy.Principal {
	claims := GetClaims(c)
	if claims == nil {
		return policy.Principal{}
	}
	return policy.Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

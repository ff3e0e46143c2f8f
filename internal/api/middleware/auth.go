package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"poll-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey = "user_id"
	emailKey  = "email"
)

type ctxKey struct{}

var ErrInvalidToken = errors.New("invalid token")

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserIDFromContext returns the user id stored by WithUserID.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ctxKey{}).(uint)
	return id, ok
}

// UserID returns the authenticated user id set by the auth middleware.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// ParseToken validates an HS256 token and returns its user_id and email claims.
func (am *AuthMiddleware) ParseToken(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(am.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	// numeric claims decode as float64
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, "", ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	return uint(userID), email, nil
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func (am *AuthMiddleware) authenticate(c *gin.Context, tokenString string) error {
	userID, email, err := am.ParseToken(tokenString)
	if err != nil {
		return err
	}
	c.Set(userIDKey, userID)
	c.Set(emailKey, email)
	c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
	return nil
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "Authentication credentials were not provided.",
			})
			return
		}
		if err := am.authenticate(c, tokenString); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "Invalid token",
				Details: err.Error(),
			})
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// otherwise lets the request through anonymously.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearer(c); tokenString != "" {
			_ = am.authenticate(c, tokenString)
		}
		c.Next()
	}
}

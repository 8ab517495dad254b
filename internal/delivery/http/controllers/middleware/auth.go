package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/pkg/logger"
)

const (
	ClientIDCtx    = "client_id"
	ClientRolesCtx = "client_roles"

	AuthorRole = "author"
	ClientRole = "client"
)

// AuthMiddlewareProvider verifies bearer tokens issued by the external auth
// service. Token issuance, refresh and user management live outside this
// service; only the claims needed to key sessions are read here.
type AuthMiddlewareProvider struct {
	log    logger.Log
	secret []byte
}

func NewAuthMiddlewareProvider(log logger.Log, secret string) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{log: log, secret: []byte(secret)}
}

type accessClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	var token string
	if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
		token = parts[1]
	}
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		h.log.Info("failed to parse token", logger.Err(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "cant parse token"})
		return
	}
	if !parsed.Valid {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(ClientIDCtx, userID)
	c.Set(ClientRolesCtx, claims.Roles)
	c.Next()
}

// ClientID pulls the authenticated user id out of the request context.
func ClientID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ClientIDCtx)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

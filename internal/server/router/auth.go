package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/server/handlers"
)

const msgDenied = "Akses ditolak"

// Authorizer answers permission matrix lookups.
type Authorizer interface {
	Allowed(ctx context.Context, role, feature string) (bool, error)
}

// gate builds per-feature middlewares that require a bearer JWT whose role
// may use the feature. An empty secret leaves every route open.
type gate struct {
	secret []byte
	authz  Authorizer
	logger *zap.Logger
}

func (g gate) require(feature string) gin.HandlerFunc {
	if len(g.secret) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token tidak ditemukan"})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			return g.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token tidak valid"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token tidak valid"})
			return
		}
		role, _ := claims["role"].(string)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msgDenied})
			return
		}

		allowed, err := g.authz.Allowed(c.Request.Context(), role, feature)
		if err != nil {
			g.logger.Error("permission lookup failed", zap.String("role", role), zap.String("feature", feature), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Terjadi kesalahan server"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msgDenied})
			return
		}

		if username, _ := claims["username"].(string); username != "" {
			c.Set(handlers.UsernameKey, username)
		}
		c.Next()
	}
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/logging"
	"github.com/dmitrijs2005/travelapp/internal/server/auth"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

func accessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// authenticate resolves a Bearer token into an Actor. Requests without an
// Authorization header pass through anonymously; a bad token is rejected.
// The role comes from the stored account, not the token.
func (h *handler) authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := auth.ParseToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		actor, err := h.svc.Accounts.ResolveActor(c.Request.Context(), claims.UserID)
		if errors.Is(err, common.ErrorUnauthorized) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		if err != nil {
			h.writeError(c, err)
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		c.Next()
	}
}

// actorFrom returns the authenticated caller or nil.
func actorFrom(c *gin.Context) *services.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	a, _ := v.(*services.Actor)
	return a
}

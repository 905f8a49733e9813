package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Presence/internal/app/orch"
)

const (
	identityKey       = "identity"
	sessionTokenKey   = "token"
	internalKeyHeader = "X-Internal-Key"
)

// credentialFrom looks for a token in the Authorization header, then the
// token query parameter, then the cookie session.
func credentialFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	if t, ok := sessions.Default(c).Get(sessionTokenKey).(string); ok {
		return t
	}
	return ""
}

// Admission rejects the request with 401 unless it carries a credential
// the orchestrator accepts. The verified identity is stored under identityKey.
func Admission(o *orch.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := o.Admit(c.Request.Context(), credentialFrom(c))
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Str("ip", c.ClientIP()).Msg("connection refused")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// InternalKey guards the service-to-service routes. An empty key leaves
// them open.
func InternalKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader(internalKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

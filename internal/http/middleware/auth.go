// README: Bearer token auth; puts the caller's id and role on the gin context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medmatch/internal/infra"
	"medmatch/internal/types"
)

const (
	RoleHospital = "hospital"
	RoleSupplier = "supplier"

	ctxKeyUID  = "auth.uid"
	ctxKeyRole = "auth.role"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

// Auth verifies "Authorization: Bearer <token>" and rejects the request with
// 401 when the header is missing or the token does not verify.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "no token, authorization denied")
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abort(c, http.StatusUnauthorized, "token is not valid")
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			_ = c.Error(err)
			abort(c, http.StatusUnauthorized, "token is not valid")
			return
		}
		c.Set(ctxKeyUID, token.UID)
		c.Set(ctxKeyRole, token.Role())
		c.Next()
	}
}

// RequireRole lets the request through only when the caller's role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CallerRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "forbidden")
	}
}

func CallerUID(c *gin.Context) types.ID {
	return types.ID(c.GetString(ctxKeyUID))
}

func CallerRole(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}

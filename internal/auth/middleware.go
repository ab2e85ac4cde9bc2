package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Failure selects the status codes used when a request carries no bearer
// token or an invalid one. Endpoints historically disagree on these.
type Failure struct {
	Missing int
	Invalid int
}

var (
	// Forbidden answers both cases with 403.
	Forbidden = Failure{Missing: http.StatusForbidden, Invalid: http.StatusForbidden}
	// Unauthorized answers both cases with 401.
	Unauthorized = Failure{Missing: http.StatusUnauthorized, Invalid: http.StatusUnauthorized}
	// MissingUnauthorized answers a missing token with 401 and a bad one with 403.
	MissingUnauthorized = Failure{Missing: http.StatusUnauthorized, Invalid: http.StatusForbidden}
)

// Authenticate enforces an HS256 bearer token and stores its claims on the context.
func Authenticate(tokens *Tokens, f Failure) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(f.Missing, gin.H{"success": false, "message": "Missing or invalid token"})
			return
		}
		claims, err := tokens.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(f.Invalid, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose role is not listed.
// It must run after Authenticate.
func RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if ok {
			for _, r := range roles {
				if claims.UserType == r {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Unauthorized"})
	}
}

// ClaimsFrom returns the claims stored by Authenticate.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

func bearer(header string) (string, bool) {
	if len(header) < len("bearer ") || !strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[len("bearer "):])
	return token, token != ""
}

package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freng35/simple-votings/internal/entity"
	"github.com/freng35/simple-votings/internal/lib/jwt"
)

const (
	ctxUserID  = "userID"
	ctxEmail   = "userEmail"
	ctxIsAdmin = "isAdmin"
)

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// Middleware rejects requests without a valid bearer token and stores the
// token identity in the request context.
func (m *AuthMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := extractTokenFromHeader(c.GetHeader("Authorization"))
		if accessToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}

		claims, err := jwt.Parse(accessToken, m.secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// Optional resolves the token identity when one is present but lets the
// request through either way. Vote casting and poll viewing run under it:
// an anonymous client is identified by IP instead.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if accessToken := extractTokenFromHeader(c.GetHeader("Authorization")); accessToken != "" {
			if claims, err := jwt.Parse(accessToken, m.secret); err == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxEmail, claims.Email)
				c.Set(ctxIsAdmin, claims.IsAdmin)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id from the context, if any.
func UserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// RequestIdentity builds the voter identity for the request: the
// authenticated user id when the token was valid, the client IP otherwise.
func RequestIdentity(c *gin.Context) entity.Identity {
	if id, ok := UserID(c); ok {
		return entity.Identity{UserID: id}
	}
	return entity.Identity{IP: ClientIP(c.Request)}
}

// ClientIP resolves the caller address: the first entry of X-Forwarded-For
// when the request came through a proxy, the connection address otherwise.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func extractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

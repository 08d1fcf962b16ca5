package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/meditrack/internal/handler"
	"github.com/jwalitptl/meditrack/internal/model"
)

const contextPrincipal = "principal"

type principalKey struct{}

// TokenValidator turns a session token into the authenticated principal.
type TokenValidator interface {
	ValidateToken(token string) (*model.Principal, error)
}

type AuthMiddleware struct {
	tokens     TokenValidator
	cookieName string
}

func NewAuthMiddleware(tokens TokenValidator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:     tokens,
		cookieName: cookieName,
	}
}

// Authenticate verifies the session token from the Authorization header or the
// session cookie and stores the principal on the request.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if cookie, err := c.Cookie(m.cookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
			return
		}

		principal, err := m.tokens.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid or expired session"))
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// RequireRole allows only principals holding one of roles. It must run after
// Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("permission denied"))
	}
}

func SetPrincipal(c *gin.Context, p *model.Principal) {
	c.Set(contextPrincipal, p)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), principalKey{}, p))
}

// CurrentPrincipal returns the authenticated caller of this request.
func CurrentPrincipal(c *gin.Context) (*model.Principal, bool) {
	v, ok := c.Get(contextPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*model.Principal)
	return p, ok && p != nil
}

// PrincipalFromContext is CurrentPrincipal for code holding only a context.
func PrincipalFromContext(ctx context.Context) (*model.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*model.Principal)
	return p, ok && p != nil
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/service"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
	"github.com/noah-isme/ideaboard-api/pkg/logger"
	"github.com/noah-isme/ideaboard-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		attach(c, claims)
		c.Next()
	}
}

// OptionalJWT attaches claims when a valid token is present. Anything else
// continues as an anonymous request.
func OptionalJWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := authService.ValidateToken(token); err == nil {
				attach(c, claims)
			}
		}
		c.Next()
	}
}

// Viewer returns the request's viewer, anonymous when no claims are attached.
func Viewer(c *gin.Context) models.Viewer {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return models.Anonymous()
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return models.Anonymous()
	}
	return models.ViewerFromClaims(claims)
}

func attach(c *gin.Context, claims *models.JWTClaims) {
	c.Set(ContextUserKey, claims)
	c.Set(logger.IdentityKey, claims.Username)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

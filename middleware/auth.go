package middleware

import (
	"log/slog"
	"strings"

	"rayob-cms/helper"
	"rayob-cms/models"
	"rayob-cms/policy"
	"rayob-cms/services"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	tokenKey    = "token"
)

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity in the context.
func AuthMiddleware(tokens services.TokenService, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			h.SendError(c, models.ErrUnauthenticated)
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			h.SendError(c, models.ErrInvalidToken)
			return
		}

		identity, err := tokens.Validate(c.Request.Context(), tokenString)
		if err != nil {
			h.SendError(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Set(tokenKey, tokenString)
		c.Next()
	}
}

// RequirePermission lets the request through only when the caller's role
// may perform action. It must run after AuthMiddleware.
func RequirePermission(gate *policy.Gate, action policy.Action, h *helper.HTTPHelper, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			h.SendError(c, models.ErrUnauthenticated)
			return
		}

		if err := gate.Check(identity.Role, action); err != nil {
			log.Warn("authorization denied",
				"user_id", identity.UserID,
				"role", identity.Role,
				"action", action,
				"path", c.Request.URL.Path,
			)
			h.SendError(c, err)
			return
		}
		c.Next()
	}
}

func GetIdentity(c *gin.Context) (*services.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*services.Identity)
	return identity, ok
}

// GetToken returns the raw bearer token of an authenticated request.
func GetToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	identityapp "github.com/vellap/portal/internal/application/identity"
	"github.com/vellap/portal/internal/infrastructure/auth"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"github.com/vellap/portal/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PrincipalKey is the gin context key of the authenticated caller
const PrincipalKey = "principal"

// Authenticator resolves request credentials to a principal
type Authenticator interface {
	AuthenticateToken(ctx context.Context, token string) (*identityapp.Principal, error)
	AuthenticateAPIKey(ctx context.Context, apiKey, apiSecret string) (*identityapp.Principal, error)
	ResolveSession(ctx context.Context, sid string) (*identityapp.Principal, error)
}

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	Authenticator Authenticator
	// CookieName is the session cookie checked when no Authorization header is sent
	CookieName string
	Logger     *zap.Logger
}

// Authenticate requires a valid bearer token, API key pair or session cookie
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	return authenticate(cfg, true)
}

// OptionalAuthenticate attaches the principal when credentials are valid and
// lets anonymous requests through
func OptionalAuthenticate(cfg AuthConfig) gin.HandlerFunc {
	return authenticate(cfg, false)
}

func authenticate(cfg AuthConfig, required bool) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		principal, err := resolvePrincipal(c, cfg)
		if err != nil || principal == nil {
			if !required {
				c.Next()
				return
			}
			if err != nil {
				logger.WithLogger(c.Request.Context(), log).Debug("Authentication failed", zap.Error(err))
			}
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		c.Set(PrincipalKey, principal)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), principal.UserID.String()))
		c.Next()
	}
}

// resolvePrincipal tries the Authorization header first, then the cookie.
// A nil principal with a nil error means no credentials were sent.
func resolvePrincipal(c *gin.Context, cfg AuthConfig) (*identityapp.Principal, error) {
	ctx := c.Request.Context()

	if header := c.GetHeader("Authorization"); header != "" {
		creds, ok := auth.ParseAuthorization(header)
		if !ok {
			return nil, auth.ErrInvalidToken
		}
		if creds.BearerToken != "" {
			return cfg.Authenticator.AuthenticateToken(ctx, creds.BearerToken)
		}
		return cfg.Authenticator.AuthenticateAPIKey(ctx, creds.APIKey, creds.APISecret)
	}

	if cfg.CookieName == "" {
		return nil, nil
	}
	sid, err := c.Cookie(cfg.CookieName)
	if err != nil || sid == "" {
		return nil, nil
	}
	return cfg.Authenticator.ResolveSession(ctx, sid)
}

// RequireRole allows only principals holding role. It must run after Authenticate.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !principal.HasRole(role) {
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "Requires role "+role)
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil
func GetPrincipal(c *gin.Context) *identityapp.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(*identityapp.Principal); ok {
			return p
		}
	}
	return nil
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

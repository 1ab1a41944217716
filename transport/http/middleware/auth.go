package middleware

import (
	"errors"
	"eventhub/config"
	"eventhub/infras/jwt"
	"eventhub/infras/otel"
	authService "eventhub/internal/domains/auth/service"
	"eventhub/internal/policy"
	"eventhub/permissions"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
	"eventhub/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	messageTokenExpired    = "Token has expired"
	messageTokenInvalid    = "Invalid token"
	messageTokenClaims     = "Invalid token claims"
	messageTokenValidation = "Token validation failed"
	messageTokenRevoked    = "Token has been revoked"
)

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService  jwt.JWT
	sessions    authService.Auth
	otel        otel.Otel
	permissions *permissions.Table
	cfg         *config.Config
}

func NewAuthRoleMiddleware(
	jwtService jwt.JWT,
	sessions authService.Auth,
	otel otel.Otel,
	table *permissions.Table,
	cfg *config.Config,
) AuthRole {
	return &authRoleImpl{
		jwtService:  jwtService,
		sessions:    sessions,
		otel:        otel,
		permissions: table,
		cfg:         cfg,
	}
}

// Auth resolves the caller from the session cookie or the bearer header.
// Routes marked skip in permissions.json pass through as guests.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		ctx = policy.WithMemo(ctx)
		guest := caller.Caller{RequestID: chiMiddleware.GetReqID(ctx)}

		path, method := routePattern(request), request.Method
		if m.permissions != nil && m.permissions.Lookup(path, method).Skip {
			scope.End()
			next.ServeHTTP(writer, request.WithContext(caller.WithCaller(ctx, guest)))

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     method,
		})

		tokenString, err := m.credential(request)
		if err != nil {
			err = failure.Unauthorized(policy.MessageNotAuthenticated)
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			err = failure.Unauthorized(tokenMessage(err))
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		if claims.UserID == "" || claims.Role == "" {
			log.Error().Msg("JWT claims: user id or role is empty")

			err = failure.Unauthorized(messageTokenClaims)
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		if claims.TokenID != "" {
			revoked, err := m.sessions.IsRevoked(ctx, claims.TokenID)
			if err != nil {
				log.Warn().Err(err).Msg("failed to check token denylist")
			}

			if revoked {
				err = failure.Unauthorized(messageTokenRevoked)
				response.WithError(writer, err)

				scope.TraceError(err)
				scope.End()

				return
			}
		}

		c := caller.Caller{
			UserID:    claims.UserID,
			Email:     claims.Email,
			Role:      claims.Role,
			TokenID:   claims.TokenID,
			RequestID: guest.RequestID,
		}

		if claims.ExpiresAt != nil {
			c.ExpiresAt = claims.ExpiresAt.Time
		}

		scope.SetAttribute("user.role", c.Role)
		scope.End()

		next.ServeHTTP(writer, request.WithContext(caller.WithCaller(ctx, c)))
	})
}

// RBAC checks the caller role against the roles listed for the route.
// Requires prior authentication via Auth middleware.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if m.permissions == nil {
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		rule := m.permissions.Lookup(routePattern(request), request.Method)
		if m.permissions.Skip || rule.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		c, _ := caller.FromContext(ctx)

		if !rule.Allows(c.Role) {
			err := failure.Forbidden(denyMessage(rule.Roles))
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role":     c.Role,
				"allowed_roles": rule.Roles,
				"reason":        "role_not_allowed",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

func (m *authRoleImpl) credential(request *http.Request) (string, error) {
	name := m.cfg.Auth.CookieName
	if name == "" {
		name = constant.DefaultCookieName
	}

	if cookie, err := request.Cookie(name); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization)) //nolint:wrapcheck
}

// routePattern resolves the chi pattern the request will be dispatched to,
// so permissions.json can be keyed by pattern instead of concrete path.
func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	tctx := chi.NewRouteContext()
	if !rctx.Routes.Match(tctx, request.Method, request.URL.Path) {
		return request.URL.Path
	}

	return tctx.RoutePattern()
}

func tokenMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return messageTokenExpired
	case errors.Is(err, jwt.ErrInvalidToken):
		return messageTokenInvalid
	case errors.Is(err, jwt.ErrInvalidClaim):
		return messageTokenClaims
	default:
		return messageTokenValidation
	}
}

func denyMessage(roles []string) string {
	if len(roles) == 1 && roles[0] == constant.RoleAdmin {
		return policy.MessageAdminRequired
	}

	return policy.MessageNotAuthorized
}

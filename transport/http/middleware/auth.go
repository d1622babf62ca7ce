package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"hotelops/config"
	"hotelops/infras/jwt"
	"hotelops/infras/otel"
	"hotelops/permissions"
	"hotelops/shared/constant"
	"hotelops/shared/failure"
	"hotelops/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// internalCallKey marks a request already authenticated by the API key.
type internalCallKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole is mounted on /v1 as APIKey, then Auth, then RBAC.
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	apiKey     []byte
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, rules *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: rules,
		apiKey:     []byte(cfg.App.APIKey),
	}
}

var tokenErrorMessages = map[error]string{
	jwt.ErrExpiredToken: "Token has expired",
	jwt.ErrInvalidToken: "Invalid token",
	jwt.ErrInvalidClaim: "Invalid token claims",
}

func tokenErrorMessage(err error) string {
	for target, msg := range tokenErrorMessages {
		if errors.Is(err, target) {
			return msg
		}
	}

	return "Token validation failed"
}

func isInternalCall(ctx context.Context) bool {
	internal, _ := ctx.Value(internalCallKey{}).(bool)

	return internal
}

func deny(w http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(w, err)
}

// Auth resolves the bearer token into the caller identity stored on the
// context. Routes whose rule is marked skip stay public.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		path := routePath(r)

		if isInternalCall(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		if rule, ok := m.lookup(r.Method, path); ok && rule.Skip {
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     r.Method,
		})

		header := r.Header.Get(constant.RequestHeaderAuthorization)
		if header == "" {
			deny(w, scope, failure.Unauthorized("Missing authorization header"))

			return
		}

		token, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			deny(w, scope, failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, token, jwt.AccessToken)
		if err != nil {
			deny(w, scope, failure.Unauthorized(tokenErrorMessage(err)))

			return
		}

		if claims.UserID == "" || claims.Email == "" {
			log.Error().Str("user_id", claims.UserID).Msg("JWT claims missing user id or email")
			deny(w, scope, failure.Unauthorized("Invalid token claims"))

			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
	})
}

func withIdentity(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, claims.ID)
}

// RBAC checks the caller role against the route rule. Without a permission
// table every non-internal request is refused.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		switch {
		case isInternalCall(ctx):
			next.ServeHTTP(w, r)

			return
		case m.permission == nil:
			deny(w, scope, failure.ForbiddenError)

			return
		case m.permission.Skip:
			next.ServeHTTP(w, r)

			return
		}

		rule, _ := m.permission.Lookup(r.Method, routePath(r))
		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !rule.Skip && !rule.Allows(role) {
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": rule.Roles,
				"reason":        "role_not_allowed",
			})
			deny(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// APIKey lets internal callers through without a token. A request carrying
// a wrong key is refused outright rather than treated as a client call.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if len(m.apiKey) == 0 || subtle.ConstantTimeCompare([]byte(key), m.apiKey) != 1 {
			deny(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), internalCallKey{}, true)))
	})
}

func (m *authRoleImpl) lookup(method, path string) (permissions.Rule, bool) {
	if m.permission == nil {
		return permissions.Rule{}, false
	}

	return m.permission.Lookup(method, path)
}

// routePath resolves the request to its registered route pattern, e.g. /v1/bookings/{id}.
func routePath(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return r.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)
}
